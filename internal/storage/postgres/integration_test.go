//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"quipvid/internal/domain"
	"quipvid/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_videos.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM videos")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) insertVideo(id, title string, views int) {
	store := NewVideoStore(s.db)
	video := &domain.Video{
		ID:    id,
		URL:   "https://example.com/" + id,
		Name:  "clip-" + id,
		Title: title,
	}
	s.Require().NoError(store.Insert(s.ctx, video))
	if views > 0 {
		_, err := s.db.ExecContext(s.ctx, "UPDATE videos SET views = $1 WHERE id = $2", views, id)
		s.Require().NoError(err)
	}
}

func (s *PostgresIntegrationSuite) TestInsertAndGet() {
	store := NewVideoStore(s.db)

	video := &domain.Video{
		ID:     "abc",
		URL:    "https://example.com/abc",
		Name:   "clip-abc",
		Title:  "A Clip",
		Script: utils.Ptr("a quote"),
	}
	s.Require().NoError(store.Insert(s.ctx, video))

	s.Equal(0, video.Views)
	s.False(video.CreatedAt.IsZero())
	s.Equal(video.CreatedAt, video.UpdatedAt)

	got, err := store.GetAndCountView(s.ctx, "abc")
	s.NoError(err)
	s.Equal(1, got.Views)
	s.Equal("a quote", *got.Script)
	s.Nil(got.Image)
	s.True(got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func (s *PostgresIntegrationSuite) TestGetAndCountView_Monotonic() {
	store := NewVideoStore(s.db)
	s.insertVideo("abc", "A Clip", 0)

	for i := 1; i <= 5; i++ {
		got, err := store.GetAndCountView(s.ctx, "abc")
		s.Require().NoError(err)
		s.Equal(i, got.Views)
	}
}

func (s *PostgresIntegrationSuite) TestGetAndCountView_NotFound() {
	store := NewVideoStore(s.db)

	_, err := store.GetAndCountView(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestList_SortByViews() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "Alpha", 3)
	s.insertVideo("b", "Beta", 10)
	s.insertVideo("c", "Gamma", 7)

	videos, err := store.List(s.ctx, domain.SortByViews, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 3)
	s.Equal(10, videos[0].Views)
	s.Equal(7, videos[1].Views)
	s.Equal(3, videos[2].Views)
}

func (s *PostgresIntegrationSuite) TestList_SortByTitle() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "Gamma", 0)
	s.insertVideo("b", "Alpha", 0)
	s.insertVideo("c", "Beta", 0)

	videos, err := store.List(s.ctx, domain.SortByTitle, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 3)
	s.Equal("Alpha", videos[0].Title)
	s.Equal("Beta", videos[1].Title)
	s.Equal("Gamma", videos[2].Title)
}

func (s *PostgresIntegrationSuite) TestList_DefaultNewestFirst() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "First", 0)
	time.Sleep(10 * time.Millisecond)
	s.insertVideo("b", "Second", 0)

	videos, err := store.List(s.ctx, "", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 2)
	s.Equal("b", videos[0].ID)
	s.Equal("a", videos[1].ID)
}

func (s *PostgresIntegrationSuite) TestList_Pagination() {
	store := NewVideoStore(s.db)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		s.insertVideo(id, "Clip "+id, 0)
	}

	total, err := store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(5, total)

	page, err := store.List(s.ctx, domain.SortByTitle, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal("Clip c", page[0].Title)

	last, err := store.List(s.ctx, domain.SortByTitle, 2, 4)
	s.Require().NoError(err)
	s.Len(last, 1)

	past, err := store.List(s.ctx, domain.SortByTitle, 2, 10)
	s.Require().NoError(err)
	s.Empty(past)
}

func (s *PostgresIntegrationSuite) TestSearch_CaseInsensitive() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "xABCy", 5)
	s.insertVideo("b", "unrelated", 9)

	total, err := store.SearchCount(s.ctx, "abc")
	s.Require().NoError(err)
	s.Equal(1, total)

	videos, err := store.Search(s.ctx, "abc", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 1)
	s.Equal("a", videos[0].ID)
}

func (s *PostgresIntegrationSuite) TestSearch_MatchesNameAndScript() {
	store := NewVideoStore(s.db)

	video := &domain.Video{
		ID:     "a",
		URL:    "u",
		Name:   "the-dude-abides",
		Title:  "Untitled",
		Script: utils.Ptr("The Dude abides."),
	}
	s.Require().NoError(store.Insert(s.ctx, video))

	byName, err := store.Search(s.ctx, "dude-abides", 10, 0)
	s.Require().NoError(err)
	s.Len(byName, 1)

	byScript, err := store.Search(s.ctx, "ABIDES.", 10, 0)
	s.Require().NoError(err)
	s.Len(byScript, 1)
}

func (s *PostgresIntegrationSuite) TestSearch_OrderedByViews() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "match one", 2)
	s.insertVideo("b", "match two", 8)

	videos, err := store.Search(s.ctx, "match", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 2)
	s.Equal("b", videos[0].ID)
}

func (s *PostgresIntegrationSuite) TestSearch_WildcardsAreLiteral() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "100% genuine", 0)
	s.insertVideo("b", "100 percent", 0)

	videos, err := store.Search(s.ctx, "100%", 10, 0)
	s.Require().NoError(err)
	s.Require().Len(videos, 1)
	s.Equal("a", videos[0].ID)
}

func (s *PostgresIntegrationSuite) TestUpdate_Partial() {
	store := NewVideoStore(s.db)
	s.insertVideo("abc", "Old Title", 0)

	before, err := store.GetAndCountView(s.ctx, "abc")
	s.Require().NoError(err)

	time.Sleep(10 * time.Millisecond)

	updated, err := store.Update(s.ctx, "abc", domain.VideoUpdate{
		Title:  utils.Ptr("New Title"),
		Script: utils.Ptr("now with a quote"),
	})
	s.Require().NoError(err)
	s.Equal("New Title", updated.Title)
	s.Equal("now with a quote", *updated.Script)
	s.Equal(before.URL, updated.URL)
	s.Equal(before.Views, updated.Views)
	s.True(updated.UpdatedAt.After(before.UpdatedAt))
}

func (s *PostgresIntegrationSuite) TestUpdate_NotFound() {
	store := NewVideoStore(s.db)

	_, err := store.Update(s.ctx, "missing", domain.VideoUpdate{Title: utils.Ptr("x")})
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestDelete() {
	store := NewVideoStore(s.db)
	s.insertVideo("abc", "A Clip", 0)

	s.NoError(store.Delete(s.ctx, "abc"))

	_, err := store.GetAndCountView(s.ctx, "abc")
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(store.Delete(s.ctx, "abc"), domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestExistingIDs() {
	store := NewVideoStore(s.db)
	s.insertVideo("a", "Alpha", 0)
	s.insertVideo("b", "Beta", 0)

	existing, err := store.ExistingIDs(s.ctx, []string{"a", "b", "c"})
	s.Require().NoError(err)
	s.Len(existing, 2)
	s.Contains(existing, "a")
	s.Contains(existing, "b")
	s.NotContains(existing, "c")

	empty, err := store.ExistingIDs(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(empty)
}

func importRecord(id string, views int) *domain.VideoImport {
	return &domain.VideoImport{
		ID:    id,
		URL:   utils.Ptr("https://example.com/" + id),
		Name:  utils.Ptr("clip-" + id),
		Title: utils.Ptr("Clip " + id),
		Views: views,
	}
}

func (s *PostgresIntegrationSuite) TestUpsert_Insert() {
	store := NewVideoStore(s.db)

	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 4)))

	got, err := store.GetAndCountView(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(5, got.Views)
	s.Equal("Clip a", got.Title)
}

func (s *PostgresIntegrationSuite) TestUpsert_OverwritesFieldsKeepsHigherViews() {
	store := NewVideoStore(s.db)

	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 0)))

	// Accrue local views past the feed's count.
	for i := 0; i < 3; i++ {
		_, err := store.GetAndCountView(s.ctx, "a")
		s.Require().NoError(err)
	}

	rec := importRecord("a", 1)
	rec.Title = utils.Ptr("Renamed")
	s.Require().NoError(store.Upsert(s.ctx, rec))

	var got domain.Video
	err := s.db.GetContext(s.ctx, &got,
		"SELECT id, title, views FROM videos WHERE id = $1", "a")
	s.Require().NoError(err)
	s.Equal("Renamed", got.Title)
	s.Equal(3, got.Views)
}

func (s *PostgresIntegrationSuite) TestUpsert_FeedCanRaiseViews() {
	store := NewVideoStore(s.db)

	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 2)))
	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 50)))

	var views int
	err := s.db.GetContext(s.ctx, &views, "SELECT views FROM videos WHERE id = $1", "a")
	s.Require().NoError(err)
	s.Equal(50, views)
}

func (s *PostgresIntegrationSuite) TestUpsert_Idempotent() {
	store := NewVideoStore(s.db)

	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 4)))
	s.Require().NoError(store.Upsert(s.ctx, importRecord("a", 4)))

	total, err := store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, total)
}

func (s *PostgresIntegrationSuite) TestUpsert_MissingRequiredColumnFails() {
	store := NewVideoStore(s.db)

	rec := importRecord("a", 0)
	rec.URL = nil

	s.Error(store.Upsert(s.ctx, rec))
}

func (s *PostgresIntegrationSuite) TestSavepoint_BadRecordDoesNotPoisonBatch() {
	store := NewVideoStore(s.db)
	tm := NewTransactionManager(s.db)

	bad := importRecord("bad", 0)
	bad.URL = nil

	err := tm.WithTransaction(s.ctx, func(txCtx context.Context) error {
		if err := tm.WithSavepoint(txCtx, "rec_0", func(spCtx context.Context) error {
			return store.Upsert(spCtx, importRecord("good1", 0))
		}); err != nil {
			return err
		}

		// The failed statement rolls back to its savepoint only.
		spErr := tm.WithSavepoint(txCtx, "rec_1", func(spCtx context.Context) error {
			return store.Upsert(spCtx, bad)
		})
		s.Error(spErr)

		return tm.WithSavepoint(txCtx, "rec_2", func(spCtx context.Context) error {
			return store.Upsert(spCtx, importRecord("good2", 0))
		})
	})
	s.Require().NoError(err)

	total, err := store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, total)
}
