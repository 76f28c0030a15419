// Package server is the preview server behind `serve`: it hands out the
// project directory as static files and tells connected pages to reload
// whenever a rebuild finishes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"monacobundle.dev/internal/health"
	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/pubsub"
)

const (
	RoutePrefix  = "/_monaco"
	ReloadRoute  = RoutePrefix + "/reload"
	ClientRoute  = RoutePrefix + "/client.js"
	TopicsRoute  = RoutePrefix + "/topics"
	shutdownWait = 5 * time.Second
)

var logger log.Logger = log.New("server")

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type Server struct {
	BindAddress string
	Port        int

	// Root is served as static files. Outdir names the build whose
	// rebuild topic the reload stream follows.
	Root     string
	Outdir   string
	Registry *pubsub.Registry

	router *gin.Engine
}

func (server *Server) Handler() http.Handler {
	if server.router == nil {
		server.router = gin.New()
		server.router.Use(gin.Recovery(), requestLogger)
		server.loadRoutes()
	}

	return server.router
}

func (server *Server) address() string {
	if server.BindAddress == "" || server.BindAddress == "0.0.0.0" {
		return fmt.Sprintf("localhost:%d", server.Port)
	}

	return fmt.Sprintf("%s:%d", server.BindAddress, server.Port)
}

// Run serves until ctx is done.
func (server *Server) Run(ctx context.Context) error {
	if server.Registry == nil {
		return errors.New("server needs a pubsub registry to stream rebuilds")
	}

	if health.CheckTcp(health.TcpHealthCheck{Ipv4: true, Port: server.Port}) {
		return fmt.Errorf("failed to start server: port %d is already in use", server.Port)
	}

	logger.Print("Starting preview server", log.Ctx{
		"root":   server.Root,
		"outdir": server.Outdir,
		"pid":    os.Getpid(),
	})

	portBinding := fmt.Sprintf("%s:%d", server.BindAddress, server.Port)
	httpServer := &http.Server{
		Addr:    portBinding,
		Handler: server.Handler(),
	}

	go func() {
		healthCheck := health.HttpHealthCheck{
			Method: "GET",
			Url:    "http://" + server.address() + TopicsRoute,
		}
		for !health.CheckHttp(healthCheck) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(1 * time.Second):
			}
		}
		logger.Print(fmt.Sprintf("Serving on http://%s", server.address()), log.Ctx{})
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Err(err, "Failed to shut down server cleanly", log.Ctx{})
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	logger.Debug("Served request", log.Ctx{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"duration": time.Since(start).String(),
	})
}
