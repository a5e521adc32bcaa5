package api

// ResCode 定义返回码类型
type ResCode int64

// 定义一些返回码,可根据业务需求自定义
const (
	CodeSuccess       ResCode = 0
	CodeInvalidParam  ResCode = 4000
	CodeBatchNotFound ResCode = 4040

	CodeNeedLogin    ResCode = 4100
	CodeInvalidToken ResCode = 4200

	CodeServerBusy    ResCode = 5000
	CodeInternalError ResCode = 5001
	CodeBatchRunning  ResCode = 5002
)

var codeMsgMap = map[ResCode]string{
	CodeSuccess:       "success",
	CodeInvalidParam:  "请求参数错误",
	CodeBatchNotFound: "批次结果不存在",

	CodeNeedLogin:    "需要登录",
	CodeInvalidToken: "无效的token",

	CodeServerBusy:    "服务繁忙",
	CodeInternalError: "内部错误",
	CodeBatchRunning:  "已有批次在执行",
}

func (c ResCode) Msg() string {
	msg, ok := codeMsgMap[c]
	if !ok {
		msg = codeMsgMap[CodeServerBusy]
	}
	return msg
}
