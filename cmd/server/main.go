package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	v1 "athena-regress/api/regress/v1"
	"athena-regress/internal/conf"
	"athena-regress/internal/dao"
	"athena-regress/internal/model"
	"athena-regress/internal/server"
	"athena-regress/internal/service"
	"athena-regress/pkg/jwt"
	"athena-regress/pkg/logging"
	"athena-regress/pkg/snowflake"
)

var (
	confPath   = flag.String("conf", "./config/config.yaml", "配置文件路径")
	batchMode  = flag.Bool("batch", false, "一次性模式：立即执行一个回归批次并退出（CI用）")
	tokenID    = flag.Int64("token-id", 0, "为指定调用方ID签发令牌后退出")
	tokenName  = flag.String("token-name", "", "签发令牌时的调用方名称")
)

func main() {
	// 加载配置
	flag.Parse()
	cfg := conf.Load(*confPath)
	if err := conf.ValidateConfig(cfg); err != nil {
		fmt.Printf("invalid config, err:%v\n", err)
		os.Exit(2)
	}

	// 初始化日志
	logger, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Printf("init logger failed, err:%v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	// 旁路依赖按需初始化，批次执行本身不依赖任何外部存储
	if cfg.GetBool("mysql.enabled") {
		dao.MustInitMySQL(cfg) // 初始化 MySQL 连接
	}
	if cfg.GetBool("redis.enabled") {
		dao.MustInitRedis(cfg) // 初始化 Redis
	}
	if cfg.GetBool("minio.enabled") {
		dao.MustInitMinIO(cfg) // 初始化 MinIO 连接
	}
	jwt.MustInit(cfg)       // 初始化 jwt
	snowflake.MustInit(cfg) // 初始化 snowflake
	service.Init(cfg)       // 初始化回归测试机配置

	// 签发一对令牌给新接入的调用方，运维用
	if *tokenID > 0 {
		access, err := jwt.GenAccessToken(*tokenID, *tokenName)
		if err != nil {
			fmt.Printf("gen access token failed, err:%v\n", err)
			os.Exit(2)
		}
		refresh, err := jwt.GenRefreshToken(*tokenID, *tokenName)
		if err != nil {
			fmt.Printf("gen refresh token failed, err:%v\n", err)
			os.Exit(2)
		}
		fmt.Printf("access token:\n%s\nrefresh token:\n%s\n", access, refresh)
		return
	}

	// 一次性模式：直接执行批次，退出码交给CI判断
	if *batchMode {
		os.Exit(runOnce())
	}

	// 初始化路由
	r := server.SetupRoutes(cfg)
	// 启动服务
	err = r.Run(fmt.Sprintf(":%d", cfg.GetInt("server.port")))
	if err != nil {
		panic(err)
	}
}

// runOnce 用配置文件的默认扫描参数执行一个批次
// 退出码：0 全部检查通过，1 存在检查失败，2 批次本身出错
func runOnce() int {
	result, err := service.SubmitBatch(context.Background(), &v1.BatchReq{})
	if err != nil {
		fmt.Printf("batch error: %v\n", err)
		return 2
	}
	for _, diag := range result.Diagnostics {
		marker := "FAIL"
		if diag.Informational {
			marker = "INFO"
		}
		fmt.Printf("[%s] flux=%s %s\n", marker, diag.Flux, diag.Message)
	}
	fmt.Printf("batch %d: %s (%s)\n", result.BatchID, result.Status, result.Duration)
	switch result.Status {
	case model.StatusPass:
		return 0
	case model.StatusFail:
		return 1
	default:
		return 2
	}
}
