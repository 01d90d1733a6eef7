package server

import (
	"context"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quipvid/internal/domain"
)

// VideoService is what the handlers need from the service layer.
type VideoService interface {
	List(ctx context.Context, page, pageSize int, sortBy string) (*domain.VideoPage, error)
	Search(ctx context.Context, q string, page, pageSize int) (*domain.VideoPage, error)
	Get(ctx context.Context, id string) (*domain.Video, error)
	Create(ctx context.Context, n domain.NewVideo) (*domain.Video, error)
	Update(ctx context.Context, id string, upd domain.VideoUpdate) (*domain.Video, error)
	Delete(ctx context.Context, id string) error
}

// NewRouter builds the gin engine with all video routes mounted.
func NewRouter(svc VideoService, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	h := &handler{svc: svc, logger: logger}

	r.GET("/videos", h.listVideos)
	r.GET("/videos/search", h.searchVideos)
	r.GET("/videos/:id", h.getVideo)
	r.POST("/videos", h.createVideo)
	r.PUT("/videos/:id", h.updateVideo)
	r.DELETE("/videos/:id", h.deleteVideo)

	return r
}
