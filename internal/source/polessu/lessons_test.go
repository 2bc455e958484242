package polessu

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetable_syncer/internal/domain"
	"timetable_syncer/testdata/utils"
)

func TestExtractLessons_GroupPage(t *testing.T) {
	extraction, ok := ExtractLessons(readFixture(t, "group.html"), "22ИТ-1", autumn)
	require.True(t, ok)

	want := []domain.Lesson{
		{
			Group: "22ИТ-1", Date: "02.09", DayOfWeek: "Понедельник", Time: "08:30-09:50",
			Name: "Программирование", Location: utils.Ptr("ауд. 2-401"), Teacher: utils.Ptr("Иванов И.И."),
		},
		{
			Group: "22ИТ-1", Date: "09.09", DayOfWeek: "Понедельник", Time: "08:30-09:50",
			Name: "Программирование", Location: utils.Ptr("ауд. 2-401"), Teacher: utils.Ptr("Иванов И.И."),
		},
		{
			Group: "22ИТ-1", Date: "09.09", DayOfWeek: "Понедельник", Time: "10:05-11:25",
			Name: "Базы данных", Teacher: utils.Ptr("Петрова А.А."), Subgroup: utils.Ptr("1 подгр."),
		},
		{
			Group: "22ИТ-1", Date: "04.09", DayOfWeek: "Среда", Time: "11:40-13:00",
			Name: "Физкультура", Location: utils.Ptr("спортзал"),
		},
	}
	assert.Equal(t, want, extraction.Lessons)

	require.Len(t, extraction.Defects, 1)
	assert.ErrorIs(t, extraction.Defects[0], ErrUnknownWeek)
}

func TestExtractLessons_NoTimetable(t *testing.T) {
	_, ok := ExtractLessons(readFixture(t, "notfound.html"), "221", autumn)
	assert.False(t, ok)

	_, ok = ExtractLessons("<html><body><table></table></body></html>", "221", autumn)
	assert.False(t, ok)
}

func TestExtractLessons_EmptyBody(t *testing.T) {
	page := `<table><tbody id="weeks-filter"></tbody></table>`
	extraction, ok := ExtractLessons(page, "221", autumn)
	require.True(t, ok)
	assert.Empty(t, extraction.Lessons)
}

func TestExtractLessons_UnknownWeekdaySkipsLesson(t *testing.T) {
	page := `<ul id="weeks-menu"><li><a href="#w1">Неделя (02.09-08.09)</a></li></ul>
	<table><tbody id="weeks-filter">
		<tr class="wa"><th>Праздник</th></tr>
		<tr class="w1"><td>08:30</td><td>Лекция</td><td></td><td></td><td></td></tr>
		<tr class="wa"><th>Вторник</th></tr>
		<tr class="w1"><td>08:30</td><td>Семинар</td><td></td><td></td><td></td></tr>
	</tbody></table>`

	extraction, ok := ExtractLessons(page, "221", autumn)
	require.True(t, ok)
	require.Len(t, extraction.Lessons, 1)
	assert.Equal(t, "Семинар", extraction.Lessons[0].Name)
	assert.Equal(t, "03.09", extraction.Lessons[0].Date)

	require.Len(t, extraction.Defects, 1)
	assert.ErrorIs(t, extraction.Defects[0], ErrUnknownWeekday)
}

func tableRows(t *testing.T, rows string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tbody>" + rows + "</tbody></table>"))
	require.NoError(t, err)
	return doc.Find("tr")
}

func TestScanRow_CarriesDayAcrossRows(t *testing.T) {
	rows := tableRows(t, `
		<tr class="wa"><th>Четверг</th></tr>
		<tr class="w1"><td>08:30</td><td>A</td></tr>
		<tr class="w1"><td>10:00</td><td>B</td></tr>
		<tr class="other"><td>ignored</td></tr>
		<tr class="w1"><td>11:30</td><td>C</td></tr>
		<tr class="wa"><th>Пятница</th></tr>
		<tr class="w1"><td>08:30</td><td>D</td></tr>`)
	weeks := WeekIndex{"1": "02.09"}

	var (
		state rowState
		all   []domain.Lesson
	)
	rows.Each(func(i int, row *goquery.Selection) {
		var lessons []domain.Lesson
		var defects []error
		state, lessons, defects = scanRow(state, row, weeks, "221", autumn)
		assert.Empty(t, defects)
		all = append(all, lessons...)
	})

	require.Len(t, all, 4)
	for _, l := range all[:3] {
		assert.Equal(t, "Четверг", l.DayOfWeek)
		assert.Equal(t, "05.09", l.Date)
	}
	assert.Equal(t, "Пятница", all[3].DayOfWeek)
	assert.Equal(t, "06.09", all[3].Date)
	assert.Equal(t, "Пятница", state.day)
}

func TestScanRow_HeaderProducesNoLesson(t *testing.T) {
	row := tableRows(t, `<tr class="wa"><th> Вторник </th></tr>`).First()

	state, lessons, defects := scanRow(rowState{day: "Понедельник"}, row, WeekIndex{}, "221", autumn)
	assert.Equal(t, "Вторник", state.day)
	assert.Empty(t, lessons)
	assert.Empty(t, defects)
}

func TestScanRow_LessonBeforeHeader(t *testing.T) {
	row := tableRows(t, `<tr class="w1"><td>08:30</td><td>A</td></tr>`).First()

	_, lessons, defects := scanRow(rowState{}, row, WeekIndex{"1": "02.09"}, "221", autumn)
	assert.Empty(t, lessons)
	require.Len(t, defects, 1)
	assert.ErrorIs(t, defects[0], ErrLessonBeforeDay)
}

func TestScanRow_NormalizesCells(t *testing.T) {
	row := tableRows(t, `<tr class="w1 highlight"><td> 08:30 </td><td>Высшая
		математика</td><td>  </td><td>Сидоров С.С.,
		Козлов К.К.</td></tr>`).First()

	_, lessons, _ := scanRow(rowState{day: "Понедельник"}, row, WeekIndex{"1": "02.09"}, "221", autumn)
	require.Len(t, lessons, 1)
	assert.Equal(t, "08:30", lessons[0].Time)
	assert.Equal(t, "Высшая математика", lessons[0].Name)
	assert.Nil(t, lessons[0].Location)
	assert.Equal(t, utils.Ptr("Сидоров С.С., Козлов К.К."), lessons[0].Teacher)
	assert.Nil(t, lessons[0].Subgroup)
}

func TestWeekTokens(t *testing.T) {
	assert.Equal(t, []string{"5", "12"}, weekTokens([]string{"w5", "wa", "w", "w12", "wide", "x5"}))
}
