package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"timetable_syncer/internal/config"
	"timetable_syncer/internal/domain"
)

type SyncService struct {
	source     Source
	lessons    LessonStore
	watermarks WatermarkStore
	txManager  TransactionManager
	publisher  Publisher
	logger     *slog.Logger
	config     config.SyncConfig
}

func NewSyncService(
	source Source,
	lessons LessonStore,
	watermarks WatermarkStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	return &SyncService{
		source:     source,
		lessons:    lessons,
		watermarks: watermarks,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger.With("source", source.ID()),
		config:     cfg,
	}
}

// Sync runs one synchronization cycle. The lessons table is only replaced
// when the source published a newer watermark and at least one lesson was
// retrieved; the watermark is recorded whenever the cycle gets that far.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	startTime := time.Now()
	s.logger.Info("starting sync",
		"source_name", s.source.Name(),
		"max_concurrency", s.config.MaxConcurrency,
		"group_timeout", s.config.GroupTimeout,
	)

	watermark, err := s.source.LatestUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect watermark: %w", err)
	}

	previous, found, err := s.watermarks.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored watermark: %w", err)
	}

	stats := &domain.SyncStats{
		SourceID:  s.source.ID(),
		Watermark: watermark,
	}

	if found {
		stats.PreviousWatermark = previous
		if !watermark.After(previous) {
			stats.UpToDate = true
			stats.Duration = time.Since(startTime)
			s.logger.Info("no update available",
				"watermark", watermark,
				"stored", previous,
			)
			return stats, nil
		}
	}

	s.logger.Info("source updated", "watermark", watermark, "stored", previous)

	groups, err := s.source.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	stats.Groups = len(groups)

	s.logger.Info("fetched groups from source", "count", len(groups))

	batch := s.collect(ctx, groups, stats)
	stats.Lessons = len(batch)

	if len(batch) > 0 {
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.lessons.DeleteAll(txCtx); err != nil {
				return fmt.Errorf("delete lessons: %w", err)
			}
			if err := s.lessons.InsertBatch(txCtx, batch); err != nil {
				return fmt.Errorf("insert lessons: %w", err)
			}
			if err := s.watermarks.Append(txCtx, watermark); err != nil {
				return fmt.Errorf("append watermark: %w", err)
			}
			return nil
		})
		if err != nil {
			return stats, fmt.Errorf("replace lessons: %w", err)
		}
		stats.Replaced = true
	} else {
		s.logger.Warn("no lessons retrieved, keeping stored schedule", "groups", len(groups))

		if err := s.watermarks.Append(ctx, watermark); err != nil {
			return stats, fmt.Errorf("record watermark: %w", err)
		}
	}

	stats.Duration = time.Since(startTime)

	if stats.Replaced && s.publisher != nil {
		if err := s.publisher.PublishScheduleUpdated(ctx, stats); err != nil {
			s.logger.Error("failed to publish schedule update", "error", err)
		} else {
			stats.Published = true
		}
	}

	s.logger.Info("sync completed",
		"groups", stats.Groups,
		"groups_with_lessons", stats.GroupsWithLessons,
		"groups_empty", stats.GroupsEmpty,
		"lessons", stats.Lessons,
		"defects", stats.Defects,
		"replaced", stats.Replaced,
		"duration", stats.Duration,
	)

	return stats, nil
}

// collect retrieves every group concurrently and returns the union of their
// lessons. Failed groups are counted in stats and never abort the cycle.
func (s *SyncService) collect(ctx context.Context, groups []string, stats *domain.SyncStats) []domain.Lesson {
	var (
		mu    sync.Mutex
		batch []domain.Lesson
		g     errgroup.Group
	)
	if s.config.MaxConcurrency > 0 {
		g.SetLimit(s.config.MaxConcurrency)
	}

	for _, group := range groups {
		group := group
		g.Go(func() error {
			taskCtx := ctx
			if s.config.GroupTimeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, s.config.GroupTimeout)
				defer cancel()
			}

			schedule, err := s.source.GroupLessons(taskCtx, group)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				stats.GroupsEmpty++
				if errors.Is(err, domain.ErrNoSchedule) {
					s.logger.Debug("group has no schedule", "group", group)
				} else {
					s.logger.Warn("failed to retrieve group", "group", group, "error", err)
				}
				return nil
			}

			stats.GroupsWithLessons++
			stats.Defects += schedule.Defects
			batch = append(batch, schedule.Lessons...)
			return nil
		})
	}

	_ = g.Wait()
	return batch
}
