package console

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders an attempt duration for the instructions screen.
func FormatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%d Hours", minutes/60)
	}
	return fmt.Sprintf("%d Minutes", minutes)
}

// FormatMark prints whole marks plainly and everything else with two decimals.
func FormatMark(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatOptionalMark is FormatMark with "0" for missing marks.
func FormatOptionalMark(v *float64) string {
	if v == nil {
		return "0"
	}
	return FormatMark(*v)
}

// FormatTimeTaken renders the time spent on an attempt, falling back to the
// attempt duration. It returns "-" when neither is known.
func FormatTimeTaken(seconds *float64, fallbackMin *int) string {
	if seconds != nil && !math.IsNaN(*seconds) && !math.IsInf(*seconds, 0) {
		total := int(math.Max(0, math.Floor(*seconds)))
		m, s := total/60, total%60
		switch {
		case m > 0 && s > 0:
			return fmt.Sprintf("%d min %d sec", m, s)
		case m > 0:
			return fmt.Sprintf("%d min", m)
		default:
			return fmt.Sprintf("%d sec", s)
		}
	}
	if fallbackMin != nil {
		return fmt.Sprintf("%d min", *fallbackMin)
	}
	return "-"
}

// NormalizeSubject maps backend subject labels such as "phy" or
// "mathematics" onto the portal subject names. Geography is matched before
// physics so "geography" never resolves to Physics.
func NormalizeSubject(subject string) string {
	s := strings.ToLower(strings.TrimSpace(subject))
	switch {
	case strings.Contains(s, "geography") || strings.HasPrefix(s, "geo"):
		return "Geography"
	case strings.Contains(s, "physics") || strings.HasPrefix(s, "phy"):
		return "Physics"
	case strings.Contains(s, "chemistry") || strings.HasPrefix(s, "chem"):
		return "Chemistry"
	case strings.Contains(s, "biology") || strings.HasPrefix(s, "bio"):
		return "Biology"
	case strings.Contains(s, "mathematics") || strings.Contains(s, "maths") || strings.HasPrefix(s, "math"):
		return "Maths"
	case strings.Contains(s, "english") || strings.HasPrefix(s, "eng"):
		return "English"
	case strings.Contains(s, "history") || strings.HasPrefix(s, "hist"):
		return "History"
	case strings.Contains(s, "polity") || strings.Contains(s, "civics"):
		return "Polity"
	}
	return subject
}

// TypeLabel renders the backend test type.
func TypeLabel(testType string) string {
	if testType == "MOCK" {
		return "Mock Test"
	}
	return testType
}

// FormatNotificationTime renders how long ago a notification was created.
func FormatNotificationTime(created, now time.Time) string {
	mins := int(now.Sub(created) / time.Minute)
	if mins < 0 {
		mins = 0
	}
	if mins < 60 {
		return fmt.Sprintf("%d min ago", mins)
	}
	hr := mins / 60
	if hr < 24 {
		return fmt.Sprintf("%d hours ago", hr)
	}
	return fmt.Sprintf("%d days ago", hr/24)
}

// orDefault dereferences optional profile fields.
func orDefault(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return *v
}
