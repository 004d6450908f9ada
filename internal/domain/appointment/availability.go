package appointment

import (
	"fmt"
	"time"
)

const DefaultDuration = 30 * time.Minute

// SlotPolicy describes the daily booking grid.
type SlotPolicy struct {
	OpenAt          string
	CloseAt         string
	Interval        time.Duration
	EnforceSchedule bool
}

func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{
		OpenAt:   "10:00",
		CloseAt:  "20:00",
		Interval: 30 * time.Minute,
	}
}

type AvailabilityInput struct {
	Date      string
	ServiceID uint
	BarberID  uint
}

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// At returns hm (HH:MM) on the calendar day of day, in day's location.
func At(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}

// Grid lists every start t with open <= t < close, stepped by the interval.
func (p SlotPolicy) Grid(day time.Time) ([]time.Time, error) {
	open, err := At(day, p.OpenAt)
	if err != nil {
		return nil, err
	}
	closeAt, err := At(day, p.CloseAt)
	if err != nil {
		return nil, err
	}

	step := p.Interval
	if step <= 0 {
		step = 30 * time.Minute
	}

	var grid []time.Time
	for cur := open; cur.Before(closeAt); cur = cur.Add(step) {
		grid = append(grid, cur)
	}
	return grid, nil
}

// FreeSlots keeps the grid starts whose [t, t+duration) hits no busy interval
// and passes allow (nil allows everything).
func FreeSlots(
	grid []time.Time,
	duration time.Duration,
	busy []Interval,
	allow func(start, end time.Time) bool,
) []TimeSlot {

	slots := make([]TimeSlot, 0, len(grid))

	for _, start := range grid {
		end := start.Add(duration)

		if allow != nil && !allow(start, end) {
			continue
		}

		conflict := false
		for _, b := range busy {
			if Overlaps(start, end, b.Start, b.End) {
				conflict = true
				break
			}
		}

		if !conflict {
			slots = append(slots, TimeSlot{
				Time:      start.Format("15:04"),
				Available: true,
			})
		}
	}

	return slots
}

func ContainsTime(slots []TimeSlot, hm string) bool {
	for _, s := range slots {
		if s.Time == hm && s.Available {
			return true
		}
	}
	return false
}
