package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quipvid/internal/domain"
	"quipvid/testdata/utils"
)

func TestListVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		assert.Equal(t, "views", r.URL.Query().Get("sort_by"))

		json.NewEncoder(w).Encode(domain.VideoPage{
			Total:      60,
			Page:       2,
			PageSize:   50,
			TotalPages: 2,
			Videos:     []domain.Video{{ID: "a"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	page, err := c.ListVideos(context.Background(), 2, 50, "views")

	require.NoError(t, err)
	assert.Equal(t, 60, page.Total)
	assert.Len(t, page.Videos, 1)
}

func TestSearchVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/search", r.URL.Path)
		assert.Equal(t, "big lebowski", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(domain.VideoPage{Videos: []domain.Video{}})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.SearchVideos(context.Background(), "big lebowski", 1, 20)

	require.NoError(t, err)
}

func TestGetVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/abc123", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Video{ID: "abc123", Views: 7})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	video, err := c.GetVideo(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "abc123", video.ID)
	assert.Equal(t, 7, video.Views)
}

func TestGetVideo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "video not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.GetVideo(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u", body["url"])
		assert.Equal(t, "someone", body["user"])
		_, hasScript := body["script"]
		assert.False(t, hasScript)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Video{ID: "new-id", URL: "u"})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	video, err := c.CreateVideo(context.Background(), domain.NewVideo{
		URL:      "u",
		Name:     "n",
		Title:    "t",
		Uploader: utils.Ptr("someone"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", video.ID)
}

func TestUpdateVideo_OnlySuppliedKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/videos/abc", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"title": "t2"}, body)

		json.NewEncoder(w).Encode(domain.Video{ID: "abc", Title: "t2"})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	video, err := c.UpdateVideo(context.Background(), "abc", domain.VideoUpdate{Title: utils.Ptr("t2")})

	require.NoError(t, err)
	assert.Equal(t, "t2", video.Title)
}

func TestDeleteVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	assert.NoError(t, c.DeleteVideo(context.Background(), "abc"))
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid request parameters"})
	}))
	defer srv.Close()

	c := New(srv.URL, 2*time.Second)
	_, err := c.ListVideos(context.Background(), 1, 20, "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request parameters")
}
