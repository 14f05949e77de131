package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：调用方可修正的错误（参数、文件内容、资源缺失、限流）
// - 5xxx：服务端或上游错误
const (
	OK              = 0
	Validation      = 4000
	Extraction      = 4001
	ResourceMissing = 4004
	RateLimited     = 4029
	SystemError     = 5000
	AIUpstream      = 5001
	AIParse         = 5002
	RenderFailed    = 5003
	Persistence     = 5004
	StorageFailed   = 5005
)
