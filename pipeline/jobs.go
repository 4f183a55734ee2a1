package pipeline

import (
	"sort"

	"github.com/ryandrake08/aeronav/catalog"
	"github.com/ryandrake08/aeronav/internal/clog"
	"github.com/ryandrake08/aeronav/internal/rasterio"
	"github.com/ryandrake08/aeronav/jobqueue"
)

// workEstimate is a dataset's mask outer-ring bounding-box area, or 0
// when it has no mask. Jobs are ordered by this descending so large
// charts start first and don't become stragglers.
func workEstimate(d *catalog.Dataset) float64 {
	if d.Mask == nil {
		return 0
	}
	minX, minY, maxX, maxY := d.Mask.Outer().BBox()
	return (maxX - minX) * (maxY - minY)
}

// SortByWorkDescending orders datasets by workEstimate descending,
// stable on ties to keep runs reproducible.
func SortByWorkDescending(datasets []*catalog.Dataset) {
	sort.SliceStable(datasets, func(i, j int) bool {
		return workEstimate(datasets[i]) > workEstimate(datasets[j])
	})
}

// RunAll processes every dataset in datasets (already sorted by the
// caller, typically via SortByWorkDescending) across maxWorkers
// goroutines, and returns once every dataset has been attempted or
// every worker has died. Per-dataset failures are logged and do not
// abort the run; the caller proceeds with whatever tmp_files ended up
// on disk.
func RunAll(datasets []*catalog.Dataset, opts Options, maxWorkers int) jobqueue.Result {
	return jobqueue.Run(jobqueue.Config{
		NumJobs:    len(datasets),
		MaxWorkers: maxWorkers,
		Init: func(workerID int) error {
			rasterio.Init()
			return nil
		},
		Job: func(workerID, index int) error {
			d := datasets[index]
			clog.Info("  processing %s...", d.Name)
			err := ProcessDataset(d, opts)
			if err != nil {
				clog.Error("dataset %s: %v", d.Name, err)
			}
			return err
		},
	})
}
