package errcode

// 导出通知中携带的错误码：
// - 0：成功
// - 5xxx：导出某一阶段失败，重试耗尽后下发
const (
	OK = 0

	SystemError        = 5000
	ExportRenderFailed = 5001
	ExportPrintFailed  = 5002
	ExportUploadFailed = 5003
	ExportRecordFailed = 5004
)
