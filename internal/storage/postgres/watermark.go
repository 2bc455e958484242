package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// WatermarkStore keeps the append-only log of source update timestamps.
type WatermarkStore struct {
	db *sqlx.DB
}

func NewWatermarkStore(db *sqlx.DB) *WatermarkStore {
	return &WatermarkStore{db: db}
}

// Latest returns the greatest recorded watermark; false if none was recorded.
func (s *WatermarkStore) Latest(ctx context.Context) (time.Time, bool, error) {
	var latest sql.NullTime
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &latest, "SELECT MAX(last_update_date) FROM schedule_updates")
	if err != nil {
		return time.Time{}, false, err
	}
	return latest.Time, latest.Valid, nil
}

func (s *WatermarkStore) Append(ctx context.Context, watermark time.Time) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO schedule_updates (last_update_date) VALUES ($1)",
		watermark.UTC(),
	)
	return err
}
