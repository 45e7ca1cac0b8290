package domain

import (
	"regexp"
	"strconv"
	"time"
)

var (
	yearOnly     = regexp.MustCompile(`^\d{4}$`)
	yearMonth    = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	yearMonthDay = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// ParseEventDate parses a historical node date. Accepted layouts are
// "YYYY", "YYYY-M" and "YYYY-M-D"; anything else reports ok=false and the
// node is placed in the undated overflow row instead of on the timeline.
func ParseEventDate(date string) (time.Time, bool) {
	if yearOnly.MatchString(date) {
		y, _ := strconv.Atoi(date)
		return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
	}
	if m := yearMonth.FindStringSubmatch(date); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 {
			return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, time.UTC), true
		}
		return time.Time{}, false
	}
	if m := yearMonthDay.FindStringSubmatch(date); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			return time.Time{}, false
		}
		return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
