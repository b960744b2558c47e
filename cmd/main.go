package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PlsVerify/internal/api"
	"PlsVerify/internal/config"
	"PlsVerify/internal/metrics"
	"PlsVerify/internal/repository"
	"PlsVerify/internal/service"
	"PlsVerify/internal/utils/textio"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

// run 返回进程退出码：运行完成（成功或已记录错误）为 0，启动失败为 1
func run() int {
	// 1. 解析命令行参数
	fs := pflag.NewFlagSet("pls-verify", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	serve := fs.Bool("serve", false, "以 HTTP 服务模式运行，按请求触发验证")
	verbose := fs.BoolP("verbose", "v", false, "输出调试日志（含失败调用栈）")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 1
	}

	// 2. 初始化日志
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.InfoLevel)
	logrusLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"})
	if *verbose {
		logrusLogger.SetLevel(logrus.DebugLevel)
	}

	// 3. 加载配置文件
	cfg, err := config.LoadConfig(fs)
	if err != nil {
		logrusLogger.Errorf("加载配置文件失败: %v", err)
		return 1
	}
	logrusLogger.Info("配置文件加载成功")

	// 4. 打开主报告存储
	reader := textio.NewReader(cfg.Report.Encodings, logrusLogger)
	store, closeStore, err := repository.OpenBlockStore(cfg, reader, logrusLogger)
	if err != nil {
		logrusLogger.Errorf("打开主报告存储失败: %v", err)
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			logrusLogger.WithError(err).Warn("关闭存储失败")
		}
	}()

	// 5. 指标与验证服务
	registry := prometheus.NewRegistry()
	verifierMetrics, err := metrics.NewVerifier(registry)
	if err != nil {
		logrusLogger.Errorf("注册指标失败: %v", err)
		return 1
	}
	svc, err := service.NewVerifyService(cfg, store, verifierMetrics, logrusLogger)
	if err != nil {
		logrusLogger.Errorf("初始化验证服务失败: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*serve {
		// 6. 单次运行
		if _, err := svc.Run(ctx); err != nil {
			logrusLogger.Errorf("写入主报告失败: %v", err)
			return 1
		}
		return 0
	}

	// 6. 服务模式（从配置读取端口与运行模式）
	gin.SetMode(cfg.Server.Mode)
	r := api.NewRouter(svc, store, registry, logrusLogger)
	logrusLogger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	port := cfg.Server.Port
	logrusLogger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		logrusLogger.Errorf("启动服务失败: %v", err)
		return 1
	}
	return 0
}
