// Package server 暴露 HTTP 接口：POST /predict、POST /recommend、GET /health。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rushteam/tagkit/artifact"
	"github.com/rushteam/tagkit/inference"
	"github.com/rushteam/tagkit/recommend"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	maxHeaderBytes         = 1 << 20
)

type Options struct {
	Addr            string
	Mode            string // gin 模式，为空时不修改
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	opts      Options
	engine    *gin.Engine
	inference *inference.Service
	recommend *recommend.Service
	info      artifact.Info
	logger    *slog.Logger
}

// New 创建服务并注册路由，logger 为 nil 时使用 slog.Default()
func New(opts Options, inf *inference.Service, rec *recommend.Service, info artifact.Info, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		opts:      opts,
		engine:    gin.New(),
		inference: inf,
		recommend: rec,
		info:      info,
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.Use(RequestID(), AccessLog(s.logger), Recovery(s.logger))
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.engine.GET("/health", s.health)
	s.engine.POST("/predict", s.predict)
	s.engine.POST("/recommend", s.recommendPosts)
}

// Handler 返回 http.Handler（测试使用）
func (s *Server) Handler() http.Handler { return s.engine }

// Run 启动监听，ctx 结束后在 ShutdownTimeout 内优雅退出。
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve 在已有的 listener 上提供服务
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:        s.engine,
		ReadTimeout:    s.opts.ReadTimeout,
		WriteTimeout:   s.opts.WriteTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- hs.Serve(ln)
	}()
	s.logger.Info("server started", slog.String("address", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := hs.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
