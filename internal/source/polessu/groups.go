package polessu

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	groupListMarker = "var query = "
	groupListEnd    = "];"
)

// ExtractGroups returns the selectable group identifiers listed in the
// inline script of the home page. A page without the list yields nil.
func ExtractGroups(content string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var raw []string
	doc.Find("script").EachWithBreak(func(i int, script *goquery.Selection) bool {
		if _, external := script.Attr("src"); external {
			return true
		}
		items, ok := groupList(script.Text())
		if !ok {
			return true
		}
		raw = items
		return false
	})

	return filterGroups(raw)
}

func groupList(script string) ([]string, bool) {
	start := strings.Index(script, groupListMarker+"[")
	if start < 0 {
		return nil, false
	}
	start += len(groupListMarker)

	end := strings.Index(script[start:], groupListEnd)
	if end < 0 {
		return nil, false
	}

	items, err := parseStringArray(script[start : start+end+1])
	if err != nil {
		return nil, false
	}
	return items, true
}

// filterGroups drops sub-listing entries (parenthesized) and anything that
// does not start with a digit.
func filterGroups(raw []string) []string {
	groups := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" || item[0] < '0' || item[0] > '9' {
			continue
		}
		if strings.ContainsAny(item, "()") {
			continue
		}
		groups = append(groups, item)
	}
	return groups
}
