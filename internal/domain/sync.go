package domain

import (
	"errors"
	"time"
)

var (
	// ErrNoWatermark means neither term page published a "last updated" banner.
	ErrNoWatermark = errors.New("no update watermark found")
	// ErrNoHomePage means the group directory page could not be retrieved.
	ErrNoHomePage = errors.New("home page unavailable")
	// ErrNoSchedule means none of a group's candidate pages yielded lessons.
	ErrNoSchedule = errors.New("no schedule for group")
)

// SyncStats holds statistics about a sync operation.
type SyncStats struct {
	SourceID          string
	Watermark         time.Time
	PreviousWatermark time.Time
	UpToDate          bool
	Groups            int
	GroupsWithLessons int
	GroupsEmpty       int
	Lessons           int
	Defects           int
	Replaced          bool
	Published         bool
	Duration          time.Duration
}
