package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"timetable_syncer/internal/domain"
)

const (
	lessonColumns = 8
	// keeps every statement well below the 65535 bind parameter limit
	defaultBatchSize = 1000
)

type LessonStore struct {
	db        *sqlx.DB
	batchSize int
}

func NewLessonStore(db *sqlx.DB) *LessonStore {
	return &LessonStore{db: db, batchSize: defaultBatchSize}
}

// DeleteAll empties the lessons table. Run it inside WithTransaction
// together with InsertBatch so readers never observe an empty table.
func (s *LessonStore) DeleteAll(ctx context.Context) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM lessons")
	return err
}

func (s *LessonStore) InsertBatch(ctx context.Context, lessons []domain.Lesson) error {
	exec := GetExecutor(ctx, s.db)

	for start := 0; start < len(lessons); start += s.batchSize {
		end := min(start+s.batchSize, len(lessons))
		query, args := buildLessonInsert(lessons[start:end])
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func buildLessonInsert(lessons []domain.Lesson) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO lessons (group_name, lesson_date, day_of_week, lesson_time, lesson_name, location, teacher, subgroup) VALUES ")
	args := make([]interface{}, 0, len(lessons)*lessonColumns)

	for i, l := range lessons {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < lessonColumns; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*lessonColumns + c + 1))
		}
		sb.WriteString(")")
		args = append(args, l.Group, l.Date, l.DayOfWeek, l.Time, l.Name, l.Location, l.Teacher, l.Subgroup)
	}

	return sb.String(), args
}

// ListByGroup returns a group's lessons in insertion order.
func (s *LessonStore) ListByGroup(ctx context.Context, group string) ([]domain.Lesson, error) {
	query := `
		SELECT group_name, lesson_date, day_of_week, lesson_time, lesson_name, location, teacher, subgroup
		FROM lessons
		WHERE group_name = $1
		ORDER BY id`

	var lessons []domain.Lesson
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &lessons, query, group)
	return lessons, err
}

func (s *LessonStore) Count(ctx context.Context) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &count, "SELECT COUNT(*) FROM lessons")
	return count, err
}
