package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quipvid/internal/domain"
)

// Client talks to the videos resource API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListVideos(ctx context.Context, page, pageSize int, sortBy string) (*domain.VideoPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if sortBy != "" {
		query.Set("sort_by", sortBy)
	}

	var result domain.VideoPage
	if err := c.do(ctx, http.MethodGet, "/videos", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SearchVideos(ctx context.Context, q string, page, pageSize int) (*domain.VideoPage, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	var result domain.VideoPage
	if err := c.do(ctx, http.MethodGet, "/videos/search", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVideo fetches one video. The server counts the fetch as a view.
func (c *Client) GetVideo(ctx context.Context, id string) (*domain.Video, error) {
	var video domain.Video
	if err := c.do(ctx, http.MethodGet, "/videos/"+url.PathEscape(id), nil, nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

type videoPayload struct {
	URL    *string `json:"url,omitempty"`
	Name   *string `json:"name,omitempty"`
	Title  *string `json:"title,omitempty"`
	Image  *string `json:"image,omitempty"`
	Video  *string `json:"video,omitempty"`
	User   *string `json:"user,omitempty"`
	Poster *string `json:"poster,omitempty"`
	Script *string `json:"script,omitempty"`
}

func (c *Client) CreateVideo(ctx context.Context, n domain.NewVideo) (*domain.Video, error) {
	payload := videoPayload{
		URL:    &n.URL,
		Name:   &n.Name,
		Title:  &n.Title,
		Image:  n.Image,
		Video:  n.VideoURL,
		User:   n.Uploader,
		Poster: n.Poster,
		Script: n.Script,
	}

	var video domain.Video
	if err := c.do(ctx, http.MethodPost, "/videos", nil, payload, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) UpdateVideo(ctx context.Context, id string, upd domain.VideoUpdate) (*domain.Video, error) {
	payload := videoPayload{
		URL:    upd.URL,
		Name:   upd.Name,
		Title:  upd.Title,
		Image:  upd.Image,
		Video:  upd.VideoURL,
		User:   upd.Uploader,
		Poster: upd.Poster,
		Script: upd.Script,
	}

	var video domain.Video
	if err := c.do(ctx, http.MethodPut, "/videos/"+url.PathEscape(id), nil, payload, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func (c *Client) DeleteVideo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/videos/"+url.PathEscape(id), nil, nil, nil)
}
