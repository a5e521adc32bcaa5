package dao

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"athena-regress/internal/constants"
	"athena-regress/internal/model"
	"athena-regress/pkg/errors"
)

// SaveBatchRecord 把批次结果持久化到数据库
// 未启用 MySQL 时静默跳过，结果历史只是旁路能力，不影响批次本身
func SaveBatchRecord(result *model.BatchResult, fluxes []model.FluxScheme) error {
	if DB == nil {
		return nil
	}
	diagJSON, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecordFailed, "序列化诊断信息失败", err)
	}
	record := &model.BatchRecord{
		ID:          result.BatchID,
		Fluxes:      strings.Join(fluxes, ","),
		Status:      result.Status,
		Passed:      result.Passed,
		Diagnostics: string(diagJSON),
		DurationMs:  result.Duration.Milliseconds(),
		CreatedAt:   result.SubmitTime,
	}
	if err := DB.Create(record).Error; err != nil {
		return errors.Wrap(errors.ErrCodeRecordFailed, "写入批次记录失败", err)
	}
	return nil
}

// CacheBatchResult 把批次结果写入 Redis，供监控面按批次ID查询
func CacheBatchResult(ctx context.Context, result *model.BatchResult) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("序列化批次结果失败", zap.Error(err))
		return
	}
	key := constants.BatchResultKeyPrefix + strconv.FormatInt(result.BatchID, 10)
	if err := RedisClient.Set(ctx, key, data, constants.BatchResultTTL).Err(); err != nil {
		zap.L().Warn("缓存批次结果失败", zap.String("key", key), zap.Error(err))
	}
}

// GetCachedBatchResult 按批次ID从 Redis 读取批次结果
func GetCachedBatchResult(ctx context.Context, batchID int64) (*model.BatchResult, error) {
	if RedisClient == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "redis 未启用")
	}
	key := constants.BatchResultKeyPrefix + strconv.FormatInt(batchID, 10)
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, "批次结果不存在或已过期", err)
	}
	var result model.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "反序列化批次结果失败", err)
	}
	return &result, nil
}
