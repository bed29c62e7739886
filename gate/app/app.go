package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/config"
	"github.com/Futarimiti/riichi-hairi/common/http"
	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/common/utils"
	"github.com/Futarimiti/riichi-hairi/core/container"
	"github.com/Futarimiti/riichi-hairi/gate/api"
)

// NewServer 组装 HTTP 服务器和路由
func NewServer(conf *config.Config, c *container.AppContainer) *http.HttpServer {
	// 使用 common 封装的 gin 库 http-server
	server := http.NewHttpServer(
		http.WithPort(conf.HttpPort),
		http.WithMode(conf.Log.Level),
	)

	// 中间处理器注册
	server.Use(
		http.CorsMiddleware(),
		http.RequestIDMiddleware(),
	)
	if conf.RateLimit.RPS > 0 {
		server.Use(http.RateLimitMiddleware(utils.NewRateLimiter(conf.RateLimit.RPS, conf.RateLimit.Burst)))
	}

	handler := api.NewHandler(api.Deps{
		Rooms:        c.RoomManager,
		Monitor:      c.Monitor,
		Records:      c.GetRecords(),
		Publisher:    c.Publisher,
		Rules:        container.Rules(conf),
		Memo:         c.SearchMemo(),
		StoreTimeout: container.StoreTimeout(conf),
	})

	// 路由注册
	api.RegisterRoutes(server, handler)
	return server
}

// Run 启动 HTTP 服务和监控，收到信号或 ctx 结束时优雅退出
func Run(ctx context.Context, conf *config.Config) error {
	c, err := container.NewAppContainer(ctx, conf)
	if err != nil {
		return fmt.Errorf("容器初始化失败: %w", err)
	}
	defer c.Close()

	server := NewServer(conf, c)
	go c.Monitor.Start(ctx)

	go func() {
		log.Info("启动 HTTP 服务器，端口: %d", conf.HttpPort)
		if err := server.Start(); err != nil {
			// http.ErrServerClosed 是正常关闭，不需要记录为错误
			if !errors.Is(err, nethttp.ErrServerClosed) {
				log.Fatal("HTTP 服务器启动失败: %v", err)
			}
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case s := <-ch:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("中断信号，服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("挂起信号，服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}
