package compliance

import (
	"time"

	"go-schedule/internal/domain"
)

// longestRun computes the longest run of consecutive calendar days containing
// at least one work day, scanning a symmetric window around the candidate
// date. workDays must hold dates normalized to midnight UTC and already
// include the candidate date. The returned maximum conservatively includes
// whichever streak the candidate belongs to.
func longestRun(workDays map[time.Time]struct{}, candidateDate time.Time, windowDays int) int {
	if len(workDays) == 0 {
		return 0
	}

	start := candidateDate.AddDate(0, 0, -windowDays)
	end := candidateDate.AddDate(0, 0, windowDays)

	maxStreak := 0
	streak := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if _, ok := workDays[day]; ok {
			streak++
			if streak > maxStreak {
				maxStreak = streak
			}
		} else {
			streak = 0
		}
	}
	return maxStreak
}

// workDaySet builds the set of calendar dates carrying at least one work
// shift, from the existing events plus the candidate date.
func workDaySet(events []domain.Event, candidateDate time.Time) map[time.Time]struct{} {
	days := make(map[time.Time]struct{}, len(events)+1)
	for _, ev := range events {
		if day, ok := ev.Day(); ok {
			days[day] = struct{}{}
		}
	}
	days[candidateDate] = struct{}{}
	return days
}
