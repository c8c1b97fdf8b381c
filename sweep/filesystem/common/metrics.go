package common

import (
	"sync"
	"time"
)

// BaseMetrics provides common fields used across different metrics types
type BaseMetrics struct {
	TotalOperations int64
	SuccessfulOps   int64
	FailedOps       int64
	LastOperation   time.Time
	Mu              sync.RWMutex
}

// UpdateBaseMetrics records the outcome of one operation
func (bm *BaseMetrics) UpdateBaseMetrics(success bool) {
	bm.Mu.Lock()
	defer bm.Mu.Unlock()

	bm.TotalOperations++
	if success {
		bm.SuccessfulOps++
	} else {
		bm.FailedOps++
	}
	bm.LastOperation = time.Now()
}

// GetBaseMetrics returns the common metrics as a map
func (bm *BaseMetrics) GetBaseMetrics() map[string]interface{} {
	bm.Mu.RLock()
	defer bm.Mu.RUnlock()

	return map[string]interface{}{
		"total_operations": bm.TotalOperations,
		"successful_ops":   bm.SuccessfulOps,
		"failed_ops":       bm.FailedOps,
		"last_operation":   bm.LastOperation,
	}
}

// WalkMetrics tracks enumeration counters across walks
type WalkMetrics struct {
	BaseMetrics
	TotalWalks       int64
	TotalFiles       int64
	TotalDirectories int64
	SkippedItems     int64
	AverageTime      time.Duration
}

// RecordWalk folds one finished walk into the counters
func (wm *WalkMetrics) RecordWalk(start time.Time, files, dirs, skipped int, success bool) {
	wm.UpdateBaseMetrics(success)

	wm.Mu.Lock()
	defer wm.Mu.Unlock()

	wm.TotalWalks++
	wm.TotalFiles += int64(files)
	wm.TotalDirectories += int64(dirs)
	wm.SkippedItems += int64(skipped)

	duration := time.Since(start)
	// Rolling average
	if wm.TotalWalks == 1 {
		wm.AverageTime = duration
	} else {
		wm.AverageTime = (wm.AverageTime*time.Duration(wm.TotalWalks-1) + duration) / time.Duration(wm.TotalWalks)
	}
}

// GetMetrics returns walk metrics as a map
func (wm *WalkMetrics) GetMetrics() map[string]interface{} {
	metrics := wm.GetBaseMetrics()
	wm.Mu.RLock()
	defer wm.Mu.RUnlock()

	metrics["total_walks"] = wm.TotalWalks
	metrics["total_files"] = wm.TotalFiles
	metrics["total_directories"] = wm.TotalDirectories
	metrics["skipped_items"] = wm.SkippedItems
	metrics["average_time"] = wm.AverageTime
	return metrics
}

// DeletionMetrics tracks outcomes of file deletions
type DeletionMetrics struct {
	BaseMetrics
	BytesFreed int64
}

// RecordDeletion records one deletion attempt
func (dm *DeletionMetrics) RecordDeletion(success bool, size int64) {
	dm.UpdateBaseMetrics(success)
	if !success {
		return
	}
	dm.Mu.Lock()
	dm.BytesFreed += size
	dm.Mu.Unlock()
}

// GetMetrics returns deletion metrics as a map
func (dm *DeletionMetrics) GetMetrics() map[string]interface{} {
	metrics := dm.GetBaseMetrics()
	dm.Mu.RLock()
	defer dm.Mu.RUnlock()

	metrics["bytes_freed"] = dm.BytesFreed
	return metrics
}
