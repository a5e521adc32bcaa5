package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	v1 "athena-regress/api/regress/v1"
	"athena-regress/internal/cache"
	"athena-regress/internal/conf"
	"athena-regress/internal/constants"
	"athena-regress/internal/dao"
	"athena-regress/internal/model"
	"athena-regress/internal/task/builder"
	"athena-regress/internal/task/errtable"
	"athena-regress/internal/task/planner"
	"athena-regress/internal/task/runner"
	"athena-regress/internal/task/verify"
	"athena-regress/pkg/errors"
	"athena-regress/pkg/snowflake"
)

// 单批次互斥控制
// 所有调用把误差行追加到同一个文件，行序是下游唯一的对齐依据，
// 构建产物槽位也是共享的，所以同一时刻只允许一个批次在跑
var (
	batchSlot = make(chan struct{}, 1)

	harnessCfg *conf.HarnessConfig
	cfgMutex   sync.RWMutex
)

// Init 保存回归测试机配置，服务启动时调用一次
func Init(cfg *viper.Viper) {
	cfgMutex.Lock()
	defer cfgMutex.Unlock()
	harnessCfg = conf.LoadHarnessConfig(cfg)
	cache.Configure(conf.LoadCacheConfig(cfg))
}

// GetBatchStats 获取批次执行状态（就绪检查用）
func GetBatchStats() map[string]interface{} {
	return map[string]interface{}{
		"available_slots": cap(batchSlot) - len(batchSlot),
		"max_slots":       cap(batchSlot),
	}
}

// SubmitBatch 提交并执行一个回归批次
// 请求里的扫描参数覆盖配置文件的默认值；批次执行期间持有唯一槽位
func SubmitBatch(ctx context.Context, req *v1.BatchReq) (*model.BatchResult, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeInvalidParam, "req is nil")
	}

	cfgMutex.RLock()
	if harnessCfg == nil {
		cfgMutex.RUnlock()
		return nil, errors.New(errors.ErrCodeSystem, "服务未初始化")
	}
	hcfg := *harnessCfg
	cfgMutex.RUnlock()

	// 1. 参数校验与覆盖
	if len(req.Fluxes) > 0 {
		for _, flux := range req.Fluxes {
			if flux == "" {
				return nil, errors.New(errors.ErrCodeInvalidFlux, "通量格式名不能为空")
			}
		}
		hcfg.Fluxes = req.Fluxes
	}
	if len(req.Resolutions) > 0 {
		if len(req.Resolutions) != 2 || req.Resolutions[0] >= req.Resolutions[1] {
			return nil, errors.New(errors.ErrCodeInvalidResolution,
				fmt.Sprintf("分辨率无效: %v (应为严格递增的粗、细两个)", req.Resolutions))
		}
		for _, res := range req.Resolutions {
			if res < 8 || res%constants.ResolutionGranularity != 0 {
				return nil, errors.New(errors.ErrCodeInvalidResolution,
					fmt.Sprintf("分辨率无效: %d (应≥8且为%d的倍数)",
						res, constants.ResolutionGranularity))
			}
		}
		hcfg.Resolutions = req.Resolutions
	}

	// 2. 解析参数文件：本地路径优先，其次按 bucket+md5 从对象存储拉取
	deckPath := req.DeckPath
	if deckPath == "" && req.DeckBucket != "" && req.DeckMD5 != "" {
		path, err := cache.GetDeckCache().DownloadDeckWithCache(req.DeckBucket, req.DeckMD5)
		if err != nil {
			return nil, err
		}
		deckPath = path
	}

	batchID, err := snowflake.NextID()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "生成批次ID失败", err)
	}
	task := &model.BatchTask{
		BatchID:    batchID,
		Fluxes:     hcfg.Fluxes,
		DeckPath:   deckPath,
		DeckBucket: req.DeckBucket,
		DeckMD5:    req.DeckMD5,
		CreateTime: time.Now().Unix(),
	}

	// 3. 获取批次槽位
	select {
	case batchSlot <- struct{}{}:
		defer func() { <-batchSlot }()
	case <-ctx.Done():
		return nil, errors.New(errors.ErrCodeTimeout, "批次请求已取消")
	case <-time.After(constants.MaxSubmitWaitTimeout):
		return nil, errors.New(errors.ErrCodeBusy, "已有批次在执行，请稍后重试")
	}

	metrics := GetGlobalMetrics()
	metrics.RecordActiveIncrease()
	defer metrics.RecordActiveDecrease()

	zap.L().Info("开始回归批次",
		zap.Int64("batch_id", batchID),
		zap.Strings("fluxes", hcfg.Fluxes),
		zap.Ints("resolutions", hcfg.Resolutions),
	)

	// 4. 带超时的批次执行
	batchCtx, cancel := context.WithTimeout(ctx, constants.MaxBatchTimeout)
	defer cancel()

	result := runBatch(batchCtx, &hcfg, task)

	metrics.RecordBatch(result)
	dao.CacheBatchResult(context.Background(), result)
	if err := dao.SaveBatchRecord(result, hcfg.Fluxes); err != nil {
		zap.L().Warn("持久化批次记录失败", zap.Int64("batch_id", batchID), zap.Error(err))
	}

	zap.L().Info("回归批次完成",
		zap.Int64("batch_id", batchID),
		zap.String("status", result.Status),
		zap.Int("diagnostics", len(result.Diagnostics)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// runBatch 执行完整批次流水线：规划 → 逐配置构建 → 逐配置运行 → 读表 → 检查
// 构建/运行/表结构错误直接中止，不做部分分析；阈值类失败聚合为诊断
func runBatch(ctx context.Context, hcfg *conf.HarnessConfig, task *model.BatchTask) *model.BatchResult {
	result := &model.BatchResult{
		BatchID:    task.BatchID,
		Status:     model.StatusRunning,
		SubmitTime: time.Now(),
	}
	fail := func(err error) *model.BatchResult {
		result.Status = model.StatusError
		result.Error = err.Error()
		finish(result)
		zap.L().Error("批次中止", zap.Int64("batch_id", task.BatchID), zap.Error(err))
		return result
	}

	plan, err := planner.Plan(hcfg.Resolutions)
	if err != nil {
		return fail(err)
	}

	b := builder.New(hcfg)
	r := runner.New(hcfg)

	if err := r.TruncateErrorFile(); err != nil {
		return fail(err)
	}

	// 先把全部配置构建并暂存好，再逐配置恢复运行
	workspaces := make([]*builder.Workspace, 0, len(hcfg.Fluxes))
	for _, flux := range hcfg.Fluxes {
		ws, err := b.Build(ctx, flux)
		if err != nil {
			return fail(err)
		}
		workspaces = append(workspaces, ws)
	}

	for i, flux := range hcfg.Fluxes {
		ws := workspaces[i]
		if err := b.Restore(ws); err != nil {
			return fail(err)
		}
		for _, spec := range plan {
			if err := r.Run(ctx, flux, task.DeckPath, spec); err != nil {
				return fail(err)
			}
		}
		b.Release(ws)
	}

	table, err := errtable.ReadFile(r.ErrorFilePath())
	if err != nil {
		return fail(err)
	}

	passed, diags, err := verify.Analyze(table, hcfg.Fluxes, plan)
	if err != nil {
		return fail(err)
	}

	result.Passed = passed
	result.Diagnostics = diags
	result.RowsPerFlux = table.NumRows() / len(hcfg.Fluxes)
	if passed {
		result.Status = model.StatusPass
	} else {
		result.Status = model.StatusFail
	}
	finish(result)
	return result
}

// finish 补齐结果的时间字段
func finish(result *model.BatchResult) {
	result.FinishTime = time.Now()
	result.Duration = result.FinishTime.Sub(result.SubmitTime)
}
