package market

import "time"

// NextOpen returns the first opening instant strictly after now, in the
// market's local timezone. For a 24/7 market it returns the zero time: there
// is no next opening bell. Like IsOpen, this is holiday-unaware.
func NextOpen(m Market, now time.Time) time.Time {
	s := schedules[m]
	if s.always {
		return time.Time{}
	}
	return s.next(now, s.open)
}

// NextClose returns the first closing instant strictly after now, in the
// market's local timezone. Zero for 24/7 markets.
func NextClose(m Market, now time.Time) time.Time {
	s := schedules[m]
	if s.always {
		return time.Time{}
	}
	return s.next(now, s.close)
}

// next walks forward day by day until it finds a trading day whose instant
// at the given clock time lies strictly after now.
func (s *Schedule) next(now time.Time, at clockTime) time.Time {
	local := now.In(s.loc)
	for offset := 0; offset <= 7; offset++ {
		day := local.AddDate(0, 0, offset)
		if !s.days[day.Weekday()] {
			continue
		}
		candidate := time.Date(day.Year(), day.Month(), day.Day(), at.hour, at.minute, at.second, 0, s.loc)
		if candidate.After(now) {
			return candidate
		}
	}
	return time.Time{} // unreachable with a non-empty trading-day set
}
