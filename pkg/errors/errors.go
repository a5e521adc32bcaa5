package errors

import (
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode int

// 系统错误 (1000-1999)
const (
	ErrCodeSystem ErrorCode = 1000 + iota
	ErrCodeInternal
	ErrCodeTimeout
	ErrCodeNotFound
	ErrCodeBusy
)

// 参数错误 (2000-2999)
const (
	ErrCodeInvalidParam ErrorCode = 2000 + iota
	ErrCodeMissingParam
	ErrCodeInvalidFlux
	ErrCodeInvalidResolution
	ErrCodeInvalidDeck
)

// 构建错误 (3000-3999)
const (
	ErrCodeConfigure ErrorCode = 3000 + iota
	ErrCodeMake
	ErrCodeToolNotFound
	ErrCodeArtifactMissing
)

// 运行错误 (4000-4999)
const (
	ErrCodeRun ErrorCode = 4000 + iota
	ErrCodeRunTimeout
	ErrCodeErrorFileMissing
)

// 误差表错误 (5000-5999)
const (
	ErrCodeTableParse ErrorCode = 5000 + iota
	ErrCodeTableShape
	ErrCodeTableColumns
)

// 存储错误 (6000-6999)
const (
	ErrCodeStorage ErrorCode = 6000 + iota
	ErrCodeDeckNotFound
	ErrCodeDeckDownloadFailed
	ErrCodeCacheFailed
	ErrCodeRecordFailed
)

// RegressError 回归测试系统错误
type RegressError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *RegressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持错误链
func (e *RegressError) Unwrap() error {
	return e.Err
}

// New 创建新的回归测试错误
func New(code ErrorCode, message string) *RegressError {
	return &RegressError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) *RegressError {
	return &RegressError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewShapeError 创建误差表形状错误
// 总行数不能被配置数整除，说明规划器和执行器产生的行数不一致
func NewShapeError(totalRows, numConfigs int) *RegressError {
	return New(ErrCodeTableShape,
		fmt.Sprintf("误差表形状错误: %d 行无法按 %d 个配置均分", totalRows, numConfigs))
}

// IsErrorCode 判断错误是否为指定错误码
func IsErrorCode(err error, code ErrorCode) bool {
	if regressErr, ok := err.(*RegressError); ok {
		return regressErr.Code == code
	}
	return false
}

// GetErrorCode 获取错误码
func GetErrorCode(err error) ErrorCode {
	if regressErr, ok := err.(*RegressError); ok {
		return regressErr.Code
	}
	return ErrCodeInternal
}
