package ics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rizzource/rizzource-backend/pkg"
	"github.com/rizzource/rizzource-backend/pkg/model"
)

const stampLayout = "20060102T150405Z"

var (
	dayPattern  = regexp.MustCompile(`\b(\d{1,2})\b`)
	timePattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(AM|PM)?\b`)
)

// EventTimes derives concrete UTC start/end times from an event's
// free-text date, month name, year and optional time string. The day
// falls back to the 1st and the time to 09:00 when the text does not
// parse; events without a parseable end run for one hour.
func EventTimes(e model.Event) (start, end time.Time) {
	day := 1
	if m := dayPattern.FindStringSubmatch(e.Date); m != nil {
		if d, err := strconv.Atoi(m[1]); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}

	hour, minute := 9, 0
	if e.Time != nil {
		if m := timePattern.FindStringSubmatch(*e.Time); m != nil {
			h, _ := strconv.Atoi(m[1])
			mm, _ := strconv.Atoi(m[2])
			if strings.EqualFold(m[3], "PM") && h < 12 {
				h += 12
			}
			if strings.EqualFold(m[3], "AM") && h == 12 {
				h = 0
			}
			if h >= 0 && h < 24 && mm >= 0 && mm < 60 {
				hour, minute = h, mm
			}
		}
	}

	start = time.Date(e.Year, time.Month(e.MonthIndex+1), day, hour, minute, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

// VEvent renders a single-event calendar download. Lines are CRLF
// separated and timestamps use the UTC YYYYMMDDTHHMMSSZ form.
func VEvent(e model.Event, now time.Time) string {
	start, end := EventTimes(e)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Rizzource//Mentorship Events//EN",
		"BEGIN:VEVENT",
		"UID:" + e.ID.String() + "@rizzource",
		"DTSTAMP:" + now.UTC().Format(stampLayout),
		"DTSTART:" + start.Format(stampLayout),
		"DTEND:" + end.Format(stampLayout),
		"SUMMARY:" + escape(e.Title),
	}
	if e.Location != nil && *e.Location != "" {
		lines = append(lines, "LOCATION:"+escape(*e.Location))
	}
	if e.Description != nil && *e.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escape(*e.Description))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\r\n") + "\r\n"
}

// FileName is the suggested download name for one event.
func FileName(e model.Event) string {
	return fmt.Sprintf("%s.ics", pkg.GenerateSlug(e.Title))
}

// escape applies the RFC 5545 text escapes for the characters that
// appear in event fields.
func escape(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
