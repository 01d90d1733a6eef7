package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"quipvid/internal/domain"
)

type VideoStore interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, sortBy string, limit, offset int) ([]domain.Video, error)
	SearchCount(ctx context.Context, q string) (int, error)
	Search(ctx context.Context, q string, limit, offset int) ([]domain.Video, error)
	GetAndCountView(ctx context.Context, id string) (*domain.Video, error)
	Insert(ctx context.Context, video *domain.Video) error
	Update(ctx context.Context, id string, upd domain.VideoUpdate) (*domain.Video, error)
	Delete(ctx context.Context, id string) error
}

type ImportStore interface {
	ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	Upsert(ctx context.Context, rec *domain.VideoImport) error
}

type Source interface {
	Name() string
	FetchVideos(ctx context.Context) ([]domain.VideoImport, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, rec *domain.VideoImport, isNew bool) error
	Close() error
}
