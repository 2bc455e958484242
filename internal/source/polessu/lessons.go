package polessu

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"timetable_syncer/internal/domain"
)

const (
	headerRowClass  = "wa"
	weekClassPrefix = "w"
	notFoundNotice  = "Ничего не найдено."
)

var (
	ErrUnknownWeek     = errors.New("unknown week token")
	ErrLessonBeforeDay = errors.New("lesson row before any weekday header")
)

// Extraction is the parsed timetable of one group page. Defects describe
// lesson rows that were skipped because their date could not be resolved.
type Extraction struct {
	Lessons []domain.Lesson
	Defects []error
}

// rowState is carried from row to row while scanning the table.
type rowState struct {
	day string
}

// ExtractLessons parses the timetable body of a group page. The boolean is
// false when the page has no published timetable.
func ExtractLessons(content, group string, now time.Time) (Extraction, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Extraction{}, false
	}

	notFound := doc.Find("p").FilterFunction(func(i int, p *goquery.Selection) bool {
		return strings.TrimSpace(p.Text()) == notFoundNotice
	})
	if notFound.Length() > 0 {
		return Extraction{}, false
	}

	body := doc.Find("tbody#weeks-filter").First()
	if body.Length() == 0 {
		return Extraction{}, false
	}

	weeks := weekStarts(doc.Selection)

	var (
		out   Extraction
		state rowState
	)
	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		var lessons []domain.Lesson
		var defects []error
		state, lessons, defects = scanRow(state, row, weeks, group, now)

		out.Lessons = append(out.Lessons, lessons...)
		for _, d := range defects {
			out.Defects = append(out.Defects, fmt.Errorf("row %d: %w", i, d))
		}
	})

	return out, true
}

// scanRow turns one table row into lessons. Header rows only switch the
// current weekday; week-tagged rows produce one lesson per week marker.
func scanRow(state rowState, row *goquery.Selection, weeks WeekIndex, group string, now time.Time) (rowState, []domain.Lesson, []error) {
	classes := strings.Fields(row.AttrOr("class", ""))

	for _, class := range classes {
		if class == headerRowClass {
			state.day = normalizeText(row.Find("th").First().Text())
			return state, nil, nil
		}
	}

	tokens := weekTokens(classes)
	if len(tokens) == 0 {
		return state, nil, nil
	}
	if state.day == "" {
		return state, nil, []error{ErrLessonBeforeDay}
	}

	cells := row.Find("td")
	cell := func(i int) string {
		if i >= cells.Length() {
			return ""
		}
		return normalizeText(cells.Eq(i).Text())
	}

	var (
		lessons []domain.Lesson
		defects []error
	)
	for _, token := range tokens {
		weekStart, ok := weeks[token]
		if !ok {
			defects = append(defects, fmt.Errorf("%w: %s", ErrUnknownWeek, token))
			continue
		}

		date, err := ResolveDate(weekStart, state.day, now)
		if err != nil {
			defects = append(defects, err)
			continue
		}

		lessons = append(lessons, domain.Lesson{
			Group:     group,
			Date:      date,
			DayOfWeek: state.day,
			Time:      cell(0),
			Name:      cell(1),
			Location:  optional(cell(2)),
			Teacher:   optional(cell(3)),
			Subgroup:  optional(cell(4)),
		})
	}

	return state, lessons, defects
}

// weekTokens returns the tokens of w<digits> classes.
func weekTokens(classes []string) []string {
	var tokens []string
	for _, class := range classes {
		token, ok := strings.CutPrefix(class, weekClassPrefix)
		if !ok || !isDigits(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
