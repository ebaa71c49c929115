package compliance

// Rules holds the working-time thresholds the validator enforces. They are
// injected at construction so boundary values can be exercised in tests.
type Rules struct {
	// MaxDailyHours caps the summed shift hours on one calendar day.
	MaxDailyHours float64
	// MinRestHours is the minimum gap between two shifts, in either direction.
	MinRestHours float64
	// MaxConsecutiveDays caps the longest run of consecutive work days.
	MaxConsecutiveDays int
	// ConsecutiveWindowDays bounds the consecutive-day scan to the candidate
	// date plus/minus this many days. No legally meaningful run can exceed
	// four weeks, so the scan never needs unbounded history.
	ConsecutiveWindowDays int
	// WeeklyCeilings maps declared daily contract hours to the weekly cap.
	// The mapping reflects external labor-rate tiers and is deliberately
	// non-linear; it must not be replaced with a ratio.
	WeeklyCeilings map[int]int
	// DefaultWeeklyCeiling applies to unknown or unset contract tiers.
	DefaultWeeklyCeiling int
}

// DefaultRules returns the statutory thresholds.
func DefaultRules() Rules {
	return Rules{
		MaxDailyHours:         12,
		MinRestHours:          12,
		MaxConsecutiveDays:    6,
		ConsecutiveWindowDays: 14,
		WeeklyCeilings: map[int]int{
			4: 30,
			6: 40,
			8: 53,
		},
		DefaultWeeklyCeiling: 53,
	}
}

// MaxWeeklyHours resolves the weekly ceiling for a contract tier. Unknown
// tiers (including the nil-contract default of 8) fall back to the default
// ceiling.
func (r Rules) MaxWeeklyHours(dailyContractHours int) int {
	if ceiling, ok := r.WeeklyCeilings[dailyContractHours]; ok {
		return ceiling
	}
	return r.DefaultWeeklyCeiling
}
