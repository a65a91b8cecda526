// Package timefmt normalizes the free-text times typed into dispatch forms.
package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timePattern accepts H:MM or H:MM:SS with an optional AM/PM marker.
var timePattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::\d{2})?\s*(AM|PM)?$`)

// referenceDay anchors clock times so they can be formatted with time.Format.
var referenceDay = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// parse returns the 24-hour hour and minute of raw, or ok=false.
func parse(raw string) (hour, minute int, ok bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])

	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour < 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// Display converts raw into a 12-hour "h:mm AM" string. Input that does not
// look like a clock time is returned unchanged; empty input yields "".
func Display(raw string) string {
	if raw == "" {
		return ""
	}
	hour, minute, ok := parse(raw)
	if !ok {
		return raw
	}
	t := referenceDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return t.Format("3:04 PM")
}

// Sortable converts raw into a zero-padded 24-hour "HHMM" string used in
// archive names. Empty or unreadable input yields "0000".
func Sortable(raw string) string {
	if raw == "" {
		return "0000"
	}
	hour, minute, ok := parse(raw)
	if !ok {
		return "0000"
	}
	return fmt.Sprintf("%02d%02d", hour, minute)
}
