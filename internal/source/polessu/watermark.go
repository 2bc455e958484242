package polessu

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const watermarkLayout = "02.01.2006 15:04"

var watermarkPattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}`)

// Getter retrieves page content; false means no content.
type Getter interface {
	Get(ctx context.Context, url string) (string, bool)
}

// ParseWatermark finds the "last updated" timestamp in a term page.
func ParseWatermark(content string, loc *time.Location) (time.Time, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return time.Time{}, false
	}

	var (
		stamp time.Time
		found bool
	)
	doc.Find(".container small").EachWithBreak(func(i int, small *goquery.Selection) bool {
		match := watermarkPattern.FindString(small.Text())
		if match == "" {
			return true
		}
		t, err := time.ParseInLocation(watermarkLayout, match, loc)
		if err != nil {
			return true
		}
		stamp, found = t, true
		return false
	})

	return stamp, found
}

// DetectWatermark returns the latest watermark published on any of pages.
func DetectWatermark(ctx context.Context, getter Getter, pages []string, loc *time.Location) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, page := range pages {
		content, ok := getter.Get(ctx, page)
		if !ok {
			continue
		}
		stamp, ok := ParseWatermark(content, loc)
		if !ok {
			continue
		}
		if !found || stamp.After(latest) {
			latest, found = stamp, true
		}
	}
	return latest, found
}
