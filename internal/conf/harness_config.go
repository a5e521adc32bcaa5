package conf

import (
	"time"

	"github.com/spf13/viper"

	"athena-regress/internal/constants"
	"athena-regress/internal/model"
)

// HarnessConfig 回归测试机配置
type HarnessConfig struct {
	RepoDir     string             // 求解器源码仓库目录（configure.py 所在目录）
	Python      string             // python 解释器路径
	Make        string             // make 路径
	MakeJobs    int                // make 并行度
	Fluxes      []model.FluxScheme // 按顺序构建的通量格式
	Resolutions []int              // 扫描分辨率（粗到细，必须恰好两个）
	Deck        string             // 参数文件路径（相对 RepoDir 或绝对路径）
	ErrorFile   string             // 共享误差表文件（相对 RepoDir）
	ExecPath    string             // 构建产物路径（相对 RepoDir）
	ObjDir      string             // 编译中间产物目录（相对 RepoDir）
	Configure   string             // 构建配置脚本（相对 RepoDir）
	BuildTimeout time.Duration     // 单个配置构建超时
	RunTimeout   time.Duration     // 单次求解器调用超时
}

// LoadHarnessConfig 从配置文件加载回归测试机配置
func LoadHarnessConfig(cfg *viper.Viper) *HarnessConfig {
	fluxes := cfg.GetStringSlice("regress.fluxes")
	if len(fluxes) == 0 {
		fluxes = []model.FluxScheme{model.FluxHLLD, model.FluxRoe}
	}
	resolutions := cfg.GetIntSlice("regress.resolutions")
	if len(resolutions) == 0 {
		resolutions = []int{constants.DefaultCoarseRes, constants.DefaultFineRes}
	}
	return &HarnessConfig{
		RepoDir:      cfg.GetString("regress.repo_dir"),
		Python:       cfg.GetString("regress.python"),
		Make:         cfg.GetString("regress.make"),
		MakeJobs:     cfg.GetInt("regress.make_jobs"),
		Fluxes:       fluxes,
		Resolutions:  resolutions,
		Deck:         cfg.GetString("regress.deck"),
		ErrorFile:    cfg.GetString("regress.error_file"),
		ExecPath:     cfg.GetString("regress.exec_path"),
		ObjDir:       cfg.GetString("regress.obj_dir"),
		Configure:    cfg.GetString("regress.configure"),
		BuildTimeout: cfg.GetDuration("regress.build_timeout"),
		RunTimeout:   cfg.GetDuration("regress.run_timeout"),
	}
}

// CacheConfig 参数文件缓存配置
type CacheConfig struct {
	DeckTTL        time.Duration // 参数文件缓存时间
	MaxDiskUsage   int64         // 最大磁盘使用
	CleanFrequency time.Duration // 清理频率
}

// LoadCacheConfig 从配置文件加载缓存配置
func LoadCacheConfig(cfg *viper.Viper) *CacheConfig {
	return &CacheConfig{
		DeckTTL:        time.Duration(cfg.GetInt("cache.deck_ttl")) * time.Second,
		MaxDiskUsage:   cfg.GetInt64("cache.max_disk_usage"),
		CleanFrequency: time.Duration(cfg.GetInt("cache.clean_frequency")) * time.Second,
	}
}
