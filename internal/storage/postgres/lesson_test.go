package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"timetable_syncer/internal/domain"
	"timetable_syncer/testdata/utils"
)

func TestBuildLessonInsert(t *testing.T) {
	lessons := []domain.Lesson{
		{Group: "221", Date: "02.09", DayOfWeek: "Понедельник", Time: "08:30", Name: "A", Location: utils.Ptr("101")},
		{Group: "223", Date: "03.09", DayOfWeek: "Вторник", Time: "10:00", Name: "B", Subgroup: utils.Ptr("1")},
	}

	query, args := buildLessonInsert(lessons)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO lessons (group_name, lesson_date, day_of_week, lesson_time, lesson_name, location, teacher, subgroup) VALUES "))
	assert.True(t, strings.HasSuffix(query, "($1, $2, $3, $4, $5, $6, $7, $8), ($9, $10, $11, $12, $13, $14, $15, $16)"))
	assert.Len(t, args, 16)
	assert.Equal(t, "221", args[0])
	assert.Equal(t, utils.Ptr("101"), args[5])
	assert.Nil(t, args[6])
	assert.Equal(t, "B", args[12])
	assert.Equal(t, utils.Ptr("1"), args[15])
}
