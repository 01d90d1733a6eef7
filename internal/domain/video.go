package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no video exists for the requested id.
	ErrNotFound = errors.New("video not found")
	// ErrEmptyUpdate is returned when an update payload carries no fields.
	ErrEmptyUpdate = errors.New("no fields provided for update")
)

// Video is one stored clip. Optional columns are pointers so that an
// absent value round-trips as JSON null, the same way the table stores it.
type Video struct {
	ID        string    `db:"id" json:"id"`
	URL       string    `db:"url" json:"url"`
	Name      string    `db:"name" json:"name"`
	Title     string    `db:"title" json:"title"`
	Image     *string   `db:"image" json:"image"`
	VideoURL  *string   `db:"video" json:"video"`
	Uploader  *string   `db:"uploader" json:"user"`
	Poster    *string   `db:"poster" json:"poster"`
	Script    *string   `db:"script" json:"script"`
	Views     int       `db:"views" json:"views"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewVideo carries the fields of a create request. URL, Name and Title are
// required by the API; the rest default to absent.
type NewVideo struct {
	URL      string
	Name     string
	Title    string
	Image    *string
	VideoURL *string
	Uploader *string
	Poster   *string
	Script   *string
}

// VideoUpdate is a partial update: nil means "leave unchanged".
type VideoUpdate struct {
	URL      *string
	Name     *string
	Title    *string
	Image    *string
	VideoURL *string
	Uploader *string
	Poster   *string
	Script   *string
}

// Empty reports whether no field is set.
func (u VideoUpdate) Empty() bool {
	return u.URL == nil && u.Name == nil && u.Title == nil &&
		u.Image == nil && u.VideoURL == nil && u.Uploader == nil &&
		u.Poster == nil && u.Script == nil
}

// VideoPage is one page of a listing or search result.
type VideoPage struct {
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
	Videos     []Video `json:"videos"`
}

// Sort orders accepted by the listing endpoint.
const (
	SortByViews     = "views"
	SortByTitle     = "title"
	SortByCreatedAt = "created_at"
)

// VideoImport is one record from the upstream feed. Required columns stay
// pointers here: a record that arrives without them must fail its upsert
// instead of being silently stored with empty strings.
type VideoImport struct {
	ID       string  `json:"id"`
	URL      *string `json:"url"`
	Name     *string `json:"name"`
	Title    *string `json:"title"`
	Image    *string `json:"image"`
	VideoURL *string `json:"video"`
	Uploader *string `json:"user"`
	Poster   *string `json:"poster"`
	Script   *string `json:"script"`
	Views    int     `json:"views"`
}
