package domain

// Lesson is one scheduled class occurrence for a group.
type Lesson struct {
	Group     string  `db:"group_name" json:"group"`
	Date      string  `db:"lesson_date" json:"date"` // DD.MM, year is implied
	DayOfWeek string  `db:"day_of_week" json:"day_of_week"`
	Time      string  `db:"lesson_time" json:"time"`
	Name      string  `db:"lesson_name" json:"name"`
	Location  *string `db:"location" json:"location"`
	Teacher   *string `db:"teacher" json:"teacher"`
	Subgroup  *string `db:"subgroup" json:"subgroup"`
}

// GroupSchedule is the outcome of retrieving one group's timetable.
type GroupSchedule struct {
	Group   string
	URL     string
	Lessons []Lesson
	Defects int
}
