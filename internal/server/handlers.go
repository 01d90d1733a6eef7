package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quipvid/internal/domain"
)

type handler struct {
	svc    VideoService
	logger *slog.Logger
}

// parsePagination reads page and page_size with their defaults. Violations
// land in fields keyed by parameter name.
func parsePagination(c *gin.Context, fields map[string]string) (page, pageSize int) {
	page = 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["page"] = "must be an integer >= 1"
		} else {
			page = n
		}
	}

	pageSize = 20
	if raw := c.Query("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			fields["page_size"] = "must be an integer between 1 and 100"
		} else {
			pageSize = n
		}
	}
	return page, pageSize
}

func (h *handler) listVideos(c *gin.Context) {
	fields := map[string]string{}
	page, pageSize := parsePagination(c, fields)

	sortBy := c.Query("sort_by")
	switch sortBy {
	case "", domain.SortByViews, domain.SortByTitle, domain.SortByCreatedAt:
	default:
		fields["sort_by"] = "must be one of: views, title, created_at"
	}

	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request parameters", "fields": fields})
		return
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, sortBy)
	if err != nil {
		h.internalError(c, "list videos", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) searchVideos(c *gin.Context) {
	fields := map[string]string{}
	page, pageSize := parsePagination(c, fields)

	q := c.Query("q")
	if q == "" {
		fields["q"] = "must not be empty"
	}

	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request parameters", "fields": fields})
		return
	}

	result, err := h.svc.Search(c.Request.Context(), q, page, pageSize)
	if err != nil {
		h.internalError(c, "search videos", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) getVideo(c *gin.Context) {
	video, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if err != nil {
		h.internalError(c, "get video", err)
		return
	}
	c.JSON(http.StatusOK, video)
}

type createRequest struct {
	URL    *string `json:"url"`
	Name   *string `json:"name"`
	Title  *string `json:"title"`
	Image  *string `json:"image"`
	Video  *string `json:"video"`
	User   *string `json:"user"`
	Poster *string `json:"poster"`
	Script *string `json:"script"`
}

func (h *handler) createVideo(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	fields := map[string]string{}
	required := func(name string, value *string) string {
		if value == nil || strings.TrimSpace(*value) == "" {
			fields[name] = "is required"
			return ""
		}
		return *value
	}
	url := required("url", req.URL)
	name := required("name", req.Name)
	title := required("title", req.Title)

	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing required fields", "fields": fields})
		return
	}

	video, err := h.svc.Create(c.Request.Context(), domain.NewVideo{
		URL:      url,
		Name:     name,
		Title:    title,
		Image:    req.Image,
		VideoURL: req.Video,
		Uploader: req.User,
		Poster:   req.Poster,
		Script:   req.Script,
	})
	if err != nil {
		h.internalError(c, "create video", err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

type updateRequest struct {
	URL    *string `json:"url"`
	Name   *string `json:"name"`
	Title  *string `json:"title"`
	Image  *string `json:"image"`
	Video  *string `json:"video"`
	User   *string `json:"user"`
	Poster *string `json:"poster"`
	Script *string `json:"script"`
}

// normalize drops empty-string values: they are never stored, and behave
// exactly like a field the caller did not supply.
func normalize(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}

func (h *handler) updateVideo(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if req.URL == nil && req.Name == nil && req.Title == nil &&
		req.Image == nil && req.Video == nil && req.User == nil &&
		req.Poster == nil && req.Script == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrEmptyUpdate.Error()})
		return
	}

	upd := domain.VideoUpdate{
		URL:      normalize(req.URL),
		Name:     normalize(req.Name),
		Title:    normalize(req.Title),
		Image:    normalize(req.Image),
		VideoURL: normalize(req.Video),
		Uploader: normalize(req.User),
		Poster:   normalize(req.Poster),
		Script:   normalize(req.Script),
	}

	video, err := h.svc.Update(c.Request.Context(), c.Param("id"), upd)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if err != nil {
		h.internalError(c, "update video", err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *handler) deleteVideo(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	if err != nil {
		h.internalError(c, "delete video", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) internalError(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
