package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lumabyte/storypipe/internal/platform/logger"
	"github.com/lumabyte/storypipe/internal/repos"
)

// Server exposes a health probe and a read-only view of the story ledger.
// All writes go through the pipeline; nothing here mutates state.
type Server struct {
	Engine *gin.Engine
}

func New(log *logger.Logger, records repos.StoryRecordRepo) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(otelgin.Middleware("storypipe"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/stories", func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		rows, err := records.ListRecent(c.Request.Context(), limit)
		if err != nil {
			log.Error("List stories failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stories": rows})
	})

	return &Server{Engine: r}
}

// Run serves until ctx is canceled, then drains in-flight requests. Without
// the shutdown path the supervising errgroup would block forever on SIGTERM.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{Addr: address, Handler: s.Engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
