package jobqueue

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunAllSucceed(t *testing.T) {
	var ran int32
	res := Run(Config{
		NumJobs:    10,
		MaxWorkers: 4,
		Job: func(workerID, index int) error {
			atomic.AddInt32(&ran, 1)
			return nil
		},
	})
	if res.Succeeded != 10 || res.Failed != 0 {
		t.Fatalf("got %+v, want 10 succeeded, 0 failed", res)
	}
	if ran != 10 {
		t.Fatalf("ran = %d, want 10", ran)
	}
	if !res.Ok() {
		t.Error("Ok() should be true")
	}
}

func TestRunSomeFail(t *testing.T) {
	res := Run(Config{
		NumJobs:    5,
		MaxWorkers: 2,
		Job: func(workerID, index int) error {
			if index%2 == 0 {
				return fmt.Errorf("job %d failed", index)
			}
			return nil
		},
	})
	if res.Succeeded != 2 || res.Failed != 3 {
		t.Fatalf("got %+v, want 2 succeeded, 3 failed", res)
	}
	if res.Ok() {
		t.Error("Ok() should be false")
	}
}

func TestRunWorkerCountCapping(t *testing.T) {
	var maxConcurrent, concurrent int32
	res := Run(Config{
		NumJobs:    3,
		MaxWorkers: 100,
		Job: func(workerID, index int) error {
			c := atomic.AddInt32(&concurrent, 1)
			for {
				m := atomic.LoadInt32(&maxConcurrent)
				if c <= m || atomic.CompareAndSwapInt32(&maxConcurrent, m, c) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&concurrent, -1)
			return nil
		},
	})
	if res.Succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", res.Succeeded)
	}
	if maxConcurrent > 3 {
		t.Errorf("maxConcurrent = %d, want <= 3 (capped by NumJobs)", maxConcurrent)
	}
}

func TestRunDeadWorker(t *testing.T) {
	// Scenario F: a worker that dies mid-queue leaves its in-flight job
	// counted as one failure; the rest complete via the surviving worker.
	res := Run(Config{
		NumJobs:    4,
		MaxWorkers: 2,
		Init: func(workerID int) error {
			if workerID == 1 {
				return fmt.Errorf("simulated init failure")
			}
			return nil
		},
		Job: func(workerID, index int) error {
			return nil
		},
	})
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1 (the dead worker's in-flight job)", res.Failed)
	}
	if res.Succeeded+res.Failed != 4 {
		t.Errorf("total attempted = %d, want 4", res.Succeeded+res.Failed)
	}
}

func TestRunZeroJobs(t *testing.T) {
	res := Run(Config{NumJobs: 0, MaxWorkers: 4, Job: func(int, int) error { return nil }})
	if res.Succeeded != 0 || res.Failed != 0 {
		t.Fatalf("got %+v, want zero result", res)
	}
}

func TestRunSingleWorkerMinimum(t *testing.T) {
	res := Run(Config{NumJobs: 1, MaxWorkers: 0, Job: func(int, int) error { return nil }})
	if res.Succeeded != 1 {
		t.Fatalf("got %+v, want 1 succeeded even with MaxWorkers=0", res)
	}
}
