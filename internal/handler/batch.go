package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"athena-regress/api"
	v1 "athena-regress/api/regress/v1"
	"athena-regress/internal/dao"
	"athena-regress/internal/service"
	"athena-regress/pkg/errors"
)

// SubmitBatchHandler 提交并执行一个回归批次
// 批次是同步执行的，响应里直接带完整结果
func SubmitBatchHandler(c *gin.Context) {
	var req *v1.BatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Error("submit-batch bind json failed", zap.Error(err))
		api.ResponseError(c, api.CodeInvalidParam)
		return
	}
	zap.L().Info("submit-batch", zap.Any("req", req))
	result, err := service.SubmitBatch(c, req)
	if err != nil {
		zap.L().Error("submit-batch failed", zap.Error(err))
		switch errors.GetErrorCode(err) {
		case errors.ErrCodeBusy:
			api.ResponseError(c, api.CodeBatchRunning)
		case errors.ErrCodeInvalidParam, errors.ErrCodeInvalidFlux,
			errors.ErrCodeInvalidResolution, errors.ErrCodeInvalidDeck:
			api.ResponseErrorWithMsg(c, api.CodeInvalidParam, err.Error())
		default:
			api.ResponseError(c, api.CodeInternalError)
		}
		return
	}
	api.ResponseSuccess(c, result)
}

// GetBatchHandler 按批次ID查询缓存的批次结果
func GetBatchHandler(c *gin.Context) {
	batchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		api.ResponseError(c, api.CodeInvalidParam)
		return
	}
	result, err := dao.GetCachedBatchResult(c, batchID)
	if err != nil {
		api.ResponseError(c, api.CodeBatchNotFound)
		return
	}
	api.ResponseSuccess(c, result)
}
