package quips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quipvid/internal/domain"
)

const SourceName = "quips feed"

// Config holds feed source configuration.
type Config struct {
	URL     string
	Timeout time.Duration
}

// Source fetches the quips feed: a single JSON array of video objects.
// There is no retry; a failed fetch fails the whole batch.
type Source struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:    cfg.URL,
		logger: logger.With("source", SourceName),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// FetchVideos retrieves and decodes the feed. Any response that is not a
// JSON array is an error.
func (s *Source) FetchVideos(ctx context.Context) ([]domain.VideoImport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "quipvid-syncer/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	s.logger.Debug("fetched feed", "records", len(records))

	return s.transform(records), nil
}

func (s *Source) transform(records []Record) []domain.VideoImport {
	videos := make([]domain.VideoImport, 0, len(records))

	for _, r := range records {
		v := domain.VideoImport{
			URL:      r.URL,
			Name:     r.Name,
			Title:    r.Title,
			Image:    r.Image,
			VideoURL: r.Video,
			Uploader: r.User,
			Poster:   r.Poster,
			Script:   r.Script,
		}
		if r.ID != nil {
			v.ID = *r.ID
		}
		if r.Views != nil {
			v.Views = *r.Views
		}
		videos = append(videos, v)
	}

	return videos
}
