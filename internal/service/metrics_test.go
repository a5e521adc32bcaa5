package service

import (
	"testing"
	"time"

	"athena-regress/internal/model"
)

func newTestMetrics() *RegressMetrics {
	return &RegressMetrics{
		StartTime:    time.Now(),
		MinBatchTime: int64(^uint64(0) >> 1),
	}
}

func TestRecordBatch_Counters(t *testing.T) {
	m := newTestMetrics()

	m.RecordBatch(&model.BatchResult{
		Status:   model.StatusPass,
		Duration: 2 * time.Second,
	})
	m.RecordBatch(&model.BatchResult{
		Status:   model.StatusFail,
		Duration: 4 * time.Second,
		Diagnostics: []model.Diagnostic{
			{Check: "rms"},
			{Check: "convergence"},
			{Check: "max_rel", Informational: true}, // 信息性诊断不计入失败统计
		},
	})
	m.RecordBatch(&model.BatchResult{
		Status:   model.StatusError,
		Duration: 1 * time.Second,
	})

	if m.TotalBatches != 3 {
		t.Errorf("TotalBatches = %d, want 3", m.TotalBatches)
	}
	if m.PassedBatches != 1 || m.FailedBatches != 1 || m.ErroredBatches != 1 {
		t.Errorf("状态计数 = %d/%d/%d, want 1/1/1",
			m.PassedBatches, m.FailedBatches, m.ErroredBatches)
	}
	if m.RMSFailCount != 1 || m.ConvergenceFailCount != 1 {
		t.Errorf("检查失败计数 rms=%d convergence=%d, want 1/1",
			m.RMSFailCount, m.ConvergenceFailCount)
	}
	if m.MaxRelFailCount != 0 {
		t.Errorf("信息性诊断不应计入: MaxRelFailCount = %d", m.MaxRelFailCount)
	}
	if m.MaxBatchTime != 4000 || m.MinBatchTime != 1000 {
		t.Errorf("耗时极值 = %d/%d ms, want 4000/1000", m.MaxBatchTime, m.MinBatchTime)
	}
}

func TestGetSnapshot(t *testing.T) {
	m := newTestMetrics()

	// 空快照时最小耗时显示为0而不是初始哨兵值
	snap := m.GetSnapshot()
	if snap["min_batch_time_ms"].(int64) != 0 {
		t.Errorf("空快照 min_batch_time_ms = %v, want 0", snap["min_batch_time_ms"])
	}

	m.RecordBatch(&model.BatchResult{Status: model.StatusPass, Duration: 2 * time.Second})
	m.RecordBatch(&model.BatchResult{Status: model.StatusPass, Duration: 4 * time.Second})

	snap = m.GetSnapshot()
	if snap["total_batches"].(int64) != 2 {
		t.Errorf("total_batches = %v, want 2", snap["total_batches"])
	}
	if snap["avg_batch_time_ms"].(int64) != 3000 {
		t.Errorf("avg_batch_time_ms = %v, want 3000", snap["avg_batch_time_ms"])
	}
	failures := snap["check_failures"].(map[string]int64)
	for _, key := range []string{"rms", "max_rel", "convergence", "symmetry"} {
		if _, ok := failures[key]; !ok {
			t.Errorf("check_failures 缺少类别 %q", key)
		}
	}
}

func TestRecordActive(t *testing.T) {
	m := newTestMetrics()
	m.RecordActiveIncrease()
	if m.CurrentActive != 1 {
		t.Errorf("CurrentActive = %d, want 1", m.CurrentActive)
	}
	m.RecordActiveDecrease()
	if m.CurrentActive != 0 {
		t.Errorf("CurrentActive = %d, want 0", m.CurrentActive)
	}
}
