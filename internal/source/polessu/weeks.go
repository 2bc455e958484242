package polessu

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WeekIndex maps a week token to the DD.MM date of that week's Monday.
type WeekIndex map[string]string

// ExtractWeekStarts reads the week selector of a group page.
func ExtractWeekStarts(content string) WeekIndex {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return WeekIndex{}
	}
	return weekStarts(doc.Selection)
}

func weekStarts(doc *goquery.Selection) WeekIndex {
	weeks := WeekIndex{}

	doc.Find("ul#weeks-menu li").Each(func(i int, li *goquery.Selection) {
		link := li.Find("a").First()
		if link.Length() == 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok || href == "#" {
			return
		}

		token := strings.TrimPrefix(strings.TrimPrefix(href, "#"), weekClassPrefix)
		if token == "" {
			return
		}

		text := link.Text()
		open := strings.Index(text, "(")
		if open < 0 || len(text)-open-1 < 5 {
			return
		}
		weeks[token] = text[open+1 : open+6]
	})

	return weeks
}
