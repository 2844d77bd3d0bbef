// Package server exposes the ledger over a small local HTTP API: load the
// current day's events, save a new event, and load the recent daily totals.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clarkeh/go-time-ledger/internal/core/ledger"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// Server wires the gin engine to a ledger.
type Server struct {
	engine      *gin.Engine
	ledger      *ledger.Ledger
	loc         *time.Location
	historyDays int
	now         func() time.Time
}

// New builds the server. staticDir, when non-empty, is mounted so the
// browser front end can be served by the same process.
func New(led *ledger.Ledger, loc *time.Location, historyDays int, staticDir string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:      gin.New(),
		ledger:      led,
		loc:         loc,
		historyDays: historyDays,
		now:         time.Now,
	}

	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.GET("/load_today", s.loadToday)
	s.engine.POST("/save", s.saveEntry)
	s.engine.GET("/load_history", s.loadHistory)

	if staticDir != "" {
		s.engine.Static("/static", staticDir)
		s.engine.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return s
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		util.LogInfo("server listening", util.F("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	util.LogInfo("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// requestLogger logs each request through the structured logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		util.LogDebug("request",
			util.F("method", c.Request.Method),
			util.F("path", c.Request.URL.Path),
			util.F("status", c.Writer.Status()),
			util.F("duration", time.Since(start).String()))
	}
}
