package constants

import "time"

// 回归测试相关常量
const (
	// 求解器仓库内的相对路径
	DefaultExecPath      = "bin/athena"                       // 构建产物（活动执行槽位）
	DefaultObjDir        = "obj"                              // 编译中间产物目录
	DefaultErrorFile     = "bin/linearwave-errors.dat"        // 共享误差表文件
	DefaultDeck          = "inputs/mhd/athinput.linear_wave3d" // 线性波参数文件
	DefaultConfigure     = "configure.py"                     // 构建配置脚本
	DefaultProblem       = "linear_wave"                      // 问题类型
	DefaultCoord         = "cartesian"                        // 坐标系

	// 扫描参数默认值
	DefaultCoarseRes      = 32 // 粗分辨率
	DefaultFineRes        = 64 // 细分辨率
	ResolutionGranularity = 4  // 分辨率必须是4的倍数（横向减半、分块四分之一）

	// 超时配置
	MaxBuildTimeout = 30 * time.Minute // configure+make 超时时间
	MaxRunTimeout   = 30 * time.Minute // 单次求解器调用超时时间
	MaxBatchTimeout = 4 * time.Hour    // 整个批次最大超时时间

	// 批次提交等待
	MaxSubmitWaitTimeout = 5 * time.Second // 批次互斥等待超时
)

// 缓存相关常量
const (
	DefaultCacheTTL       = 30 * time.Minute       // 默认参数文件缓存过期时间
	DefaultCleanFrequency = 10 * time.Minute       // 默认清理频率
	DefaultMaxDiskUsage   = 1 * 1024 * 1024 * 1024 // 默认最大磁盘使用（1GB）

	CacheDirName = "regress-deck-cache"
	CacheDirPerm = 0755
)

// 日志相关常量
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	DefaultLogFile    = "log/server.log"
	DefaultLogMaxSize = 200 // MB
	DefaultLogMaxAge  = 30  // days
	DefaultLogBackups = 7
)

// HTTP 相关常量
const (
	DefaultServerPort = 53380

	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 60 * time.Second
)

// Redis 相关常量
const (
	BatchResultKeyPrefix = "regress:batch:" // 批次结果缓存 key 前缀
	BatchResultTTL       = 24 * time.Hour   // 批次结果缓存时间
)
