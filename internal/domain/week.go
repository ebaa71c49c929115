package domain

import "time"

// DateOf normalizes a timestamp to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the ISO week containing the given date.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday closing the ISO week containing the given date.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// InWeek reports whether date falls within the Monday-anchored week that
// starts at weekStart.
func InWeek(date, weekStart time.Time) bool {
	d := DateOf(date)
	return !d.Before(weekStart) && !d.After(weekStart.AddDate(0, 0, 6))
}

// WeeksForMonth lists the Mondays of every week touching the given month.
func WeeksForMonth(year int, month time.Month) []time.Time {
	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	var weeks []time.Time
	weekStart := WeekStart(firstDay)
	for !weekStart.After(lastDay) {
		weeks = append(weeks, weekStart)
		weekStart = weekStart.AddDate(0, 0, 7)
	}
	return weeks
}
