package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"quipvid/internal/domain"
)

// VideoService implements the resource operations over the store. Input
// range validation happens at the transport layer; the service assumes
// page and pageSize are already in bounds.
type VideoService struct {
	store  VideoStore
	logger *slog.Logger
}

func NewVideoService(store VideoStore, logger *slog.Logger) *VideoService {
	return &VideoService{
		store:  store,
		logger: logger,
	}
}

func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

func (s *VideoService) List(ctx context.Context, page, pageSize int, sortBy string) (*domain.VideoPage, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count videos: %w", err)
	}

	offset := (page - 1) * pageSize
	videos, err := s.store.List(ctx, sortBy, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	return &domain.VideoPage{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		Videos:     videos,
	}, nil
}

func (s *VideoService) Search(ctx context.Context, q string, page, pageSize int) (*domain.VideoPage, error) {
	total, err := s.store.SearchCount(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	offset := (page - 1) * pageSize
	videos, err := s.store.Search(ctx, q, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	return &domain.VideoPage{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		Videos:     videos,
	}, nil
}

// Get returns the video and counts the fetch as a view.
func (s *VideoService) Get(ctx context.Context, id string) (*domain.Video, error) {
	return s.store.GetAndCountView(ctx, id)
}

// newID returns a fresh 32-hex-character identifier.
func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

func (s *VideoService) Create(ctx context.Context, n domain.NewVideo) (*domain.Video, error) {
	video := &domain.Video{
		ID:       newID(),
		URL:      n.URL,
		Name:     n.Name,
		Title:    n.Title,
		Image:    n.Image,
		VideoURL: n.VideoURL,
		Uploader: n.Uploader,
		Poster:   n.Poster,
		Script:   n.Script,
	}

	if err := s.store.Insert(ctx, video); err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	s.logger.Info("created video", "id", video.ID, "title", video.Title)
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, id string, upd domain.VideoUpdate) (*domain.Video, error) {
	video, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated video", "id", id)
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("deleted video", "id", id)
	return nil
}
