package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"timetable_syncer/internal/domain"
)

type LessonStore interface {
	DeleteAll(ctx context.Context) error
	InsertBatch(ctx context.Context, lessons []domain.Lesson) error
}

type WatermarkStore interface {
	Latest(ctx context.Context) (time.Time, bool, error)
	Append(ctx context.Context, watermark time.Time) error
}

type Source interface {
	ID() string
	Name() string
	LatestUpdate(ctx context.Context) (time.Time, error)
	Groups(ctx context.Context) ([]string, error)
	GroupLessons(ctx context.Context, group string) (*domain.GroupSchedule, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishScheduleUpdated(ctx context.Context, stats *domain.SyncStats) error
	Close() error
}
