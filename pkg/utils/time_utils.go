package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// NormalizeClock validates an "H:MM"/"HH:MM" string and returns it zero-padded.
func NormalizeClock(s string) (string, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", h, m[2]), true
}

// ParseDate reads a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatMinutes renders a walking duration as "12 min" or "1 h 5 min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

// FormatDistance renders meters as "850 m" or "1.2 km".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(meters+0.5))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// NormalizeDuration accepts tokens like "2h", "1.5h", "90m" or "45 min" and
// returns a compact form; unknown tokens return ok=false.
func NormalizeDuration(s string) (string, bool) {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	t = strings.TrimSuffix(strings.TrimSuffix(t, "ins"), "in")
	t = strings.TrimSuffix(strings.TrimSuffix(t, "ours"), "our")
	t = strings.TrimSuffix(t, "rs")
	if t == "" {
		return "", false
	}
	unit := t[len(t)-1]
	if unit != 'h' && unit != 'm' {
		return "", false
	}
	v, err := strconv.ParseFloat(t[:len(t)-1], 64)
	if err != nil || v <= 0 {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + string(unit), true
}
