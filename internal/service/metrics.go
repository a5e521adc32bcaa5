package service

import (
	"sync/atomic"
	"time"

	"athena-regress/internal/model"
)

// RegressMetrics 回归批次统计指标
type RegressMetrics struct {
	// 计数器
	TotalBatches   int64 // 总批次数
	PassedBatches  int64 // 通过批次数
	FailedBatches  int64 // 检查失败批次数
	ErroredBatches int64 // 构建/运行错误批次数

	// 各类检查失败统计
	RMSFailCount         int64 // RMS上界检查失败次数
	MaxRelFailCount      int64 // 最大相对误差检查失败次数
	ConvergenceFailCount int64 // 收敛性检查失败次数
	SymmetryFailCount    int64 // 对称性检查失败次数

	// 性能指标
	TotalBatchTime int64 // 总批次耗时（毫秒）
	MaxBatchTime   int64 // 最大批次耗时（毫秒）
	MinBatchTime   int64 // 最小批次耗时（毫秒）

	// 资源使用
	CurrentActive int32 // 当前执行中的批次数（0或1）

	// 时间戳
	StartTime time.Time // 启动时间
}

var globalMetrics = &RegressMetrics{
	StartTime:    time.Now(),
	MinBatchTime: int64(^uint64(0) >> 1), // 初始化为最大值
}

// GetGlobalMetrics 获取全局统计实例
func GetGlobalMetrics() *RegressMetrics {
	return globalMetrics
}

// RecordBatch 记录一个完成的批次
func (m *RegressMetrics) RecordBatch(result *model.BatchResult) {
	atomic.AddInt64(&m.TotalBatches, 1)
	switch result.Status {
	case model.StatusPass:
		atomic.AddInt64(&m.PassedBatches, 1)
	case model.StatusFail:
		atomic.AddInt64(&m.FailedBatches, 1)
	case model.StatusError:
		atomic.AddInt64(&m.ErroredBatches, 1)
	}

	for _, diag := range result.Diagnostics {
		if diag.Informational {
			continue
		}
		switch diag.Check {
		case "rms":
			atomic.AddInt64(&m.RMSFailCount, 1)
		case "max_rel":
			atomic.AddInt64(&m.MaxRelFailCount, 1)
		case "convergence":
			atomic.AddInt64(&m.ConvergenceFailCount, 1)
		case "symmetry":
			atomic.AddInt64(&m.SymmetryFailCount, 1)
		}
	}

	batchTimeMs := result.Duration.Milliseconds()
	atomic.AddInt64(&m.TotalBatchTime, batchTimeMs)

	for {
		oldMax := atomic.LoadInt64(&m.MaxBatchTime)
		if batchTimeMs <= oldMax {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MaxBatchTime, oldMax, batchTimeMs) {
			break
		}
	}
	for {
		oldMin := atomic.LoadInt64(&m.MinBatchTime)
		if batchTimeMs >= oldMin {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MinBatchTime, oldMin, batchTimeMs) {
			break
		}
	}
}

// RecordActiveIncrease 记录批次开始
func (m *RegressMetrics) RecordActiveIncrease() {
	atomic.AddInt32(&m.CurrentActive, 1)
}

// RecordActiveDecrease 记录批次结束
func (m *RegressMetrics) RecordActiveDecrease() {
	atomic.AddInt32(&m.CurrentActive, -1)
}

// GetSnapshot 获取当前指标快照
func (m *RegressMetrics) GetSnapshot() map[string]interface{} {
	total := atomic.LoadInt64(&m.TotalBatches)
	totalTime := atomic.LoadInt64(&m.TotalBatchTime)
	minTime := atomic.LoadInt64(&m.MinBatchTime)
	if total == 0 {
		minTime = 0
	}

	var avgTime int64
	if total > 0 {
		avgTime = totalTime / total
	}

	return map[string]interface{}{
		"total_batches":   total,
		"passed_batches":  atomic.LoadInt64(&m.PassedBatches),
		"failed_batches":  atomic.LoadInt64(&m.FailedBatches),
		"errored_batches": atomic.LoadInt64(&m.ErroredBatches),
		"check_failures": map[string]int64{
			"rms":         atomic.LoadInt64(&m.RMSFailCount),
			"max_rel":     atomic.LoadInt64(&m.MaxRelFailCount),
			"convergence": atomic.LoadInt64(&m.ConvergenceFailCount),
			"symmetry":    atomic.LoadInt64(&m.SymmetryFailCount),
		},
		"avg_batch_time_ms": avgTime,
		"max_batch_time_ms": atomic.LoadInt64(&m.MaxBatchTime),
		"min_batch_time_ms": minTime,
		"current_active":    atomic.LoadInt32(&m.CurrentActive),
		"uptime_seconds":    int64(time.Since(m.StartTime).Seconds()),
	}
}
