package rules

import (
	"fmt"
	"time"

	"shotarc/internal/history"
)

type afterHour struct{ hour int }

// AfterHour passes once the local hour-of-day of now reaches hour.
func AfterHour(hour int) PostingRule { return afterHour{hour: hour} }

func (r afterHour) Name() string { return fmt.Sprintf("afterHour(%d)", r.hour) }

func (r afterHour) Allows(_ *history.History, now time.Time) bool {
	return now.Hour() >= r.hour
}

type lastPostedHoursAgo struct{ hours int }

// LastPostedHoursAgo passes when the most recent publication is at least the
// given number of hours old, or when history is empty.
func LastPostedHoursAgo(hours int) PostingRule { return lastPostedHoursAgo{hours: hours} }

func (r lastPostedHoursAgo) Name() string { return fmt.Sprintf("lastPostedHoursAgo(%d)", r.hours) }

func (r lastPostedHoursAgo) Allows(h *history.History, now time.Time) bool {
	elapsed, ok := h.TimeSince(now, history.Any)
	if !ok {
		return true
	}
	return elapsed >= time.Duration(r.hours)*time.Hour
}

type onWeekDay struct{ day time.Weekday }

// OnWeekDay passes only on the given weekday. Kept expressible for scenarios
// like a Sunday shot-set even while no default scenario uses it.
func OnWeekDay(day time.Weekday) PostingRule { return onWeekDay{day: day} }

func (r onWeekDay) Name() string { return fmt.Sprintf("onWeekDay(%s)", r.day) }

func (r onWeekDay) Allows(_ *history.History, now time.Time) bool {
	return now.Weekday() == r.day
}
