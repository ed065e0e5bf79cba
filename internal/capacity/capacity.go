// Package capacity holds the pure duration and fill-level arithmetic used to
// decide whether a time block is under, at or over capacity.
package capacity

import (
	"fmt"
	"math"

	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/utils"
)

// FillStatus classifies a fill percentage.
type FillStatus string

const (
	StatusSafe    FillStatus = "safe"
	StatusWarning FillStatus = "warning"
	StatusDanger  FillStatus = "danger"
)

// Load is the computed capacity picture of one block or queue.
type Load struct {
	UsedMinutes   int        `json:"usedMinutes"`
	TotalMinutes  int        `json:"totalMinutes"`
	Percentage    int        `json:"percentage"`
	Status        FillStatus `json:"status"`
	BufferMinutes int        `json:"bufferMinutes"`
	OverMinutes   int        `json:"overMinutes"`
	Color         string     `json:"color"`
}

// DurationMinutes returns end minus start in minutes. The result is not
// clamped; a misordered pair yields a negative number.
func DurationMinutes(start, end string) (int, error) {
	s, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// FillPercentage is round(used/total*100) with halves rounded up, or 0
// when total is zero.
func FillPercentage(used, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(used)*100/float64(total) + 0.5))
}

// Status buckets a percentage. 70 and 100 belong to the lower bucket.
func Status(pct int) FillStatus {
	switch {
	case pct <= constants.FillSafeMaxPct:
		return StatusSafe
	case pct <= constants.FillWarningMaxPct:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// BufferMinutes is the free time left, never negative.
func BufferMinutes(used, total int) int {
	return max(0, total-used)
}

// OverMinutes is how far used exceeds total, never negative.
func OverMinutes(used, total int) int {
	return max(0, used-total)
}

// Color returns the display color for a status.
func Color(s FillStatus) string {
	switch s {
	case StatusWarning:
		return constants.FillWarningColor
	case StatusDanger:
		return constants.FillDangerColor
	default:
		return constants.FillSafeColor
	}
}

// Compute builds the full Load for the given minutes.
func Compute(used, total int) Load {
	pct := FillPercentage(used, total)
	st := Status(pct)
	return Load{
		UsedMinutes:   used,
		TotalMinutes:  total,
		Percentage:    pct,
		Status:        st,
		BufferMinutes: BufferMinutes(used, total),
		OverMinutes:   OverMinutes(used, total),
		Color:         Color(st),
	}
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
