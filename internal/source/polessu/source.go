package polessu

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"timetable_syncer/internal/domain"
)

const (
	SourceID   = "polessu"
	SourceName = "PolesSU timetable"
)

// Config holds timetable site configuration.
type Config struct {
	BaseURL        string
	SecondTermPath string
	GroupPages     []string
	Location       *time.Location
}

// Source implements service.Source for the PolesSU timetable site.
type Source struct {
	pages      Getter
	baseURL    string
	termURLs   []string
	groupPages []string
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// New creates a new PolesSU source reading pages through pages.
func New(pages Getter, cfg Config, logger *slog.Logger) *Source {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Source{
		pages:      pages,
		baseURL:    cfg.BaseURL,
		termURLs:   []string{cfg.BaseURL, cfg.BaseURL + cfg.SecondTermPath},
		groupPages: cfg.GroupPages,
		loc:        loc,
		now:        time.Now,
		logger:     logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// LatestUpdate returns the newest "last updated" banner across both terms.
func (s *Source) LatestUpdate(ctx context.Context) (time.Time, error) {
	stamp, ok := DetectWatermark(ctx, s.pages, s.termURLs, s.loc)
	if !ok {
		return time.Time{}, domain.ErrNoWatermark
	}
	return stamp, nil
}

// Groups lists the group identifiers published on the home page.
func (s *Source) Groups(ctx context.Context) ([]string, error) {
	content, ok := s.pages.Get(ctx, s.baseURL)
	if !ok {
		return nil, domain.ErrNoHomePage
	}

	groups := ExtractGroups(content)
	if len(groups) == 0 {
		s.logger.Warn("home page lists no groups", "url", s.baseURL)
	}
	return groups, nil
}

// CandidateURLs returns the pages that may hold group's timetable, in the
// order they are tried.
func (s *Source) CandidateURLs(group string) []string {
	escaped := url.QueryEscape(group)
	urls := make([]string, 0, len(s.groupPages))
	for _, page := range s.groupPages {
		urls = append(urls, s.baseURL+strings.Replace(page, "%s", escaped, 1))
	}
	return urls
}

// GroupLessons returns the lessons of the first candidate page that has any.
func (s *Source) GroupLessons(ctx context.Context, group string) (*domain.GroupSchedule, error) {
	now := s.now().In(s.loc)

	for _, candidate := range s.CandidateURLs(group) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("group %s: %w", group, err)
		}

		content, ok := s.pages.Get(ctx, candidate)
		if !ok {
			continue
		}

		extraction, ok := ExtractLessons(content, group, now)
		if !ok || len(extraction.Lessons) == 0 {
			s.logger.Debug("no lessons on page", "group", group, "url", candidate)
			continue
		}

		for _, defect := range extraction.Defects {
			s.logger.Warn("skipped lesson", "group", group, "url", candidate, "error", defect)
		}

		return &domain.GroupSchedule{
			Group:   group,
			URL:     candidate,
			Lessons: extraction.Lessons,
			Defects: len(extraction.Defects),
		}, nil
	}

	return nil, fmt.Errorf("group %s: %w", group, domain.ErrNoSchedule)
}
