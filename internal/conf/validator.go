package conf

import (
	"fmt"

	"github.com/spf13/viper"

	"athena-regress/internal/constants"
)

// ValidateConfig 验证配置文件
func ValidateConfig(cfg *viper.Viper) error {
	// 验证服务器配置
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("服务器配置错误: %w", err)
	}

	// 验证回归测试机配置
	if err := validateHarnessConfig(cfg); err != nil {
		return fmt.Errorf("回归测试机配置错误: %w", err)
	}

	// 验证缓存配置
	if err := validateCacheConfig(cfg); err != nil {
		return fmt.Errorf("缓存配置错误: %w", err)
	}

	return nil
}

// validateServerConfig 验证服务器配置
func validateServerConfig(cfg *viper.Viper) error {
	port := cfg.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("端口号无效: %d (应在1-65535之间)", port)
	}

	mode := cfg.GetString("server.mode")
	if mode != "dev" && mode != "prod" && mode != "test" {
		return fmt.Errorf("运行模式无效: %s (应为dev/prod/test)", mode)
	}

	return nil
}

// validateHarnessConfig 验证回归测试机配置
// 分辨率必须恰好两个（粗、细）、严格递增且均为4的倍数，
// 否则规划器派生的横向网格和分块尺寸不是整数
func validateHarnessConfig(cfg *viper.Viper) error {
	repoDir := cfg.GetString("regress.repo_dir")
	if repoDir == "" {
		return fmt.Errorf("求解器仓库目录不能为空")
	}

	fluxes := cfg.GetStringSlice("regress.fluxes")
	for _, flux := range fluxes {
		if flux == "" {
			return fmt.Errorf("通量格式名不能为空")
		}
	}

	resolutions := cfg.GetIntSlice("regress.resolutions")
	if len(resolutions) > 0 {
		if len(resolutions) != 2 {
			return fmt.Errorf("分辨率数量无效: %d (应恰好为粗、细两个)", len(resolutions))
		}
		if resolutions[0] >= resolutions[1] {
			return fmt.Errorf("分辨率必须严格递增: %v", resolutions)
		}
		for _, res := range resolutions {
			if res < 8 || res%constants.ResolutionGranularity != 0 {
				return fmt.Errorf("分辨率无效: %d (应≥8且为%d的倍数)",
					res, constants.ResolutionGranularity)
			}
		}
	}

	buildTimeout := cfg.GetDuration("regress.build_timeout")
	if buildTimeout <= 0 || buildTimeout > constants.MaxBatchTimeout {
		return fmt.Errorf("构建超时时间无效: %v", buildTimeout)
	}

	runTimeout := cfg.GetDuration("regress.run_timeout")
	if runTimeout <= 0 || runTimeout > constants.MaxBatchTimeout {
		return fmt.Errorf("运行超时时间无效: %v", runTimeout)
	}

	return nil
}

// validateCacheConfig 验证缓存配置
func validateCacheConfig(cfg *viper.Viper) error {
	ttl := cfg.GetInt("cache.deck_ttl")
	if ttl <= 0 || ttl > 86400 {
		return fmt.Errorf("缓存TTL无效: %d (应在1-86400秒之间)", ttl)
	}

	maxDiskUsage := cfg.GetInt64("cache.max_disk_usage")
	if maxDiskUsage <= 0 || maxDiskUsage > 100*1024*1024*1024 {
		return fmt.Errorf("最大磁盘使用无效: %d (应在1B-100GB之间)", maxDiskUsage)
	}

	cleanFreq := cfg.GetInt("cache.clean_frequency")
	if cleanFreq <= 0 || cleanFreq > 3600 {
		return fmt.Errorf("清理频率无效: %d (应在1-3600秒之间)", cleanFreq)
	}

	return nil
}

// SetDefaultValues 设置默认配置值
func SetDefaultValues(cfg *viper.Viper) {
	// 服务器默认值
	cfg.SetDefault("server.port", constants.DefaultServerPort)
	cfg.SetDefault("server.mode", "dev")
	cfg.SetDefault("server.name", "athena-regress")

	// 回归测试机默认值
	cfg.SetDefault("regress.repo_dir", ".")
	cfg.SetDefault("regress.python", "python3")
	cfg.SetDefault("regress.make", "make")
	cfg.SetDefault("regress.make_jobs", 4)
	cfg.SetDefault("regress.deck", constants.DefaultDeck)
	cfg.SetDefault("regress.error_file", constants.DefaultErrorFile)
	cfg.SetDefault("regress.exec_path", constants.DefaultExecPath)
	cfg.SetDefault("regress.obj_dir", constants.DefaultObjDir)
	cfg.SetDefault("regress.configure", constants.DefaultConfigure)
	cfg.SetDefault("regress.build_timeout", constants.MaxBuildTimeout)
	cfg.SetDefault("regress.run_timeout", constants.MaxRunTimeout)

	// 缓存默认值
	cfg.SetDefault("cache.deck_ttl", int(constants.DefaultCacheTTL.Seconds()))
	cfg.SetDefault("cache.max_disk_usage", constants.DefaultMaxDiskUsage)
	cfg.SetDefault("cache.clean_frequency", int(constants.DefaultCleanFrequency.Seconds()))

	// 日志默认值
	cfg.SetDefault("log.level", constants.LogLevelInfo)
	cfg.SetDefault("log.filename", constants.DefaultLogFile)
	cfg.SetDefault("log.max_size", constants.DefaultLogMaxSize)
	cfg.SetDefault("log.max_age", constants.DefaultLogMaxAge)
	cfg.SetDefault("log.max_backups", constants.DefaultLogBackups)

	// Snowflake默认值
	cfg.SetDefault("snowflake.machine_id", 1)
	cfg.SetDefault("snowflake.start_time", "2025-07-01")
}
