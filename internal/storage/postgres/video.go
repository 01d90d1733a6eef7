package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"quipvid/internal/domain"
)

const videoColumns = `id, url, name, title, image, video, uploader, poster, script, views, created_at, updated_at`

type VideoStore struct {
	db *sqlx.DB
}

func NewVideoStore(db *sqlx.DB) *VideoStore {
	return &VideoStore{db: db}
}

func (s *VideoStore) Count(ctx context.Context) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM videos")
	return total, err
}

// List returns one page of videos. sortBy must be one of the domain sort
// constants or empty for the default created_at ordering.
func (s *VideoStore) List(ctx context.Context, sortBy string, limit, offset int) ([]domain.Video, error) {
	var order string
	switch sortBy {
	case domain.SortByViews:
		order = "views DESC"
	case domain.SortByTitle:
		order = "title ASC"
	default:
		order = "created_at DESC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM videos ORDER BY %s LIMIT $1 OFFSET $2",
		videoColumns, order,
	)

	videos := []domain.Video{}
	err := s.db.SelectContext(ctx, &videos, query, limit, offset)
	return videos, err
}

// escapeLike makes a literal usable inside a LIKE/ILIKE pattern.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}

func (s *VideoStore) SearchCount(ctx context.Context, q string) (int, error) {
	pattern := "%" + escapeLike(q) + "%"
	var total int
	err := s.db.GetContext(ctx, &total, `
		SELECT COUNT(*) FROM videos
		WHERE title ILIKE $1 OR name ILIKE $1 OR script ILIKE $1`,
		pattern,
	)
	return total, err
}

// Search matches the substring case-insensitively against title, name and
// script, ordered by views descending.
func (s *VideoStore) Search(ctx context.Context, q string, limit, offset int) ([]domain.Video, error) {
	pattern := "%" + escapeLike(q) + "%"
	query := fmt.Sprintf(`
		SELECT %s FROM videos
		WHERE title ILIKE $1 OR name ILIKE $1 OR script ILIKE $1
		ORDER BY views DESC
		LIMIT $2 OFFSET $3`, videoColumns)

	videos := []domain.Video{}
	err := s.db.SelectContext(ctx, &videos, query, pattern, limit, offset)
	return videos, err
}

// GetAndCountView increments the view counter and returns the updated row
// in one statement, so the read and the increment cannot interleave.
func (s *VideoStore) GetAndCountView(ctx context.Context, id string) (*domain.Video, error) {
	query := fmt.Sprintf(`
		UPDATE videos
		SET views = views + 1, updated_at = now()
		WHERE id = $1
		RETURNING %s`, videoColumns)

	var video domain.Video
	err := s.db.GetContext(ctx, &video, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (s *VideoStore) Insert(ctx context.Context, video *domain.Video) error {
	query := fmt.Sprintf(`
		INSERT INTO videos (id, url, name, title, image, video, uploader, poster, script, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
		RETURNING %s`, videoColumns)

	return s.db.GetContext(ctx, video, query,
		video.ID,
		video.URL,
		video.Name,
		video.Title,
		video.Image,
		video.VideoURL,
		video.Uploader,
		video.Poster,
		video.Script,
	)
}

// Update applies the non-nil fields of upd and refreshes updated_at. An
// update with no fields still touches updated_at; callers reject payloads
// that carried no keys at all before reaching the store.
func (s *VideoStore) Update(ctx context.Context, id string, upd domain.VideoUpdate) (*domain.Video, error) {
	set := []string{}
	args := []interface{}{}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("url", upd.URL)
	add("name", upd.Name)
	add("title", upd.Title)
	add("image", upd.Image)
	add("video", upd.VideoURL)
	add("uploader", upd.Uploader)
	add("poster", upd.Poster)
	add("script", upd.Script)
	set = append(set, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE videos SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args), videoColumns,
	)

	var video domain.Video
	err := s.db.GetContext(ctx, &video, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (s *VideoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistingIDs reports which of the given ids already have a row.
func (s *VideoStore) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	result := make(map[string]struct{})
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM videos WHERE id = ANY($1)",
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result[id] = struct{}{}
	}

	return result, rows.Err()
}

// Upsert inserts a feed record or overwrites the non-key columns of an
// existing row. The view counter keeps the larger of the stored and the
// incoming value so locally accrued views survive a re-sync. Runs on the
// transaction carried by ctx when there is one.
func (s *VideoStore) Upsert(ctx context.Context, rec *domain.VideoImport) error {
	query := `
		INSERT INTO videos (id, url, name, title, image, video, uploader, poster, script, views)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			image = EXCLUDED.image,
			video = EXCLUDED.video,
			uploader = EXCLUDED.uploader,
			poster = EXCLUDED.poster,
			script = EXCLUDED.script,
			views = GREATEST(videos.views, EXCLUDED.views),
			updated_at = now()`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		rec.ID,
		rec.URL,
		rec.Name,
		rec.Title,
		rec.Image,
		rec.VideoURL,
		rec.Uploader,
		rec.Poster,
		rec.Script,
		rec.Views,
	)
	return err
}
