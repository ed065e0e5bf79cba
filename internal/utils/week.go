package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/bium/internal/constants"
)

// WeekDay is one working day of the displayed week.
type WeekDay struct {
	Date      string `json:"date"`      // YYYY-MM-DD
	DayOfWeek int    `json:"dayOfWeek"` // 1=Monday ... 5=Friday
	DayName   string `json:"dayName"`
	IsToday   bool   `json:"isToday"`
}

// Monday returns midnight of the Monday starting the week that contains t,
// in t's location.
func Monday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekDates returns Monday through Friday of the week containing now.
func WeekDates(now time.Time) []WeekDay {
	start := Monday(now)
	today := now.Format(constants.DateFormat)

	days := make([]WeekDay, 0, constants.LastWorkday-constants.FirstWorkday+1)
	for dow := constants.FirstWorkday; dow <= constants.LastWorkday; dow++ {
		d := start.AddDate(0, 0, dow-1)
		date := d.Format(constants.DateFormat)
		days = append(days, WeekDay{
			Date:      date,
			DayOfWeek: dow,
			DayName:   d.Weekday().String(),
			IsToday:   date == today,
		})
	}
	return days
}

// WeekKey returns the ISO week of t as "YYYY-Www".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DayName returns the English name for a 1-5 day number, or "" when out of range.
func DayName(dayOfWeek int) string {
	if dayOfWeek < constants.FirstWorkday || dayOfWeek > constants.LastWorkday {
		return ""
	}
	return time.Weekday(dayOfWeek % 7).String()
}
