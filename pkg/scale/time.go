package scale

import (
	"math"
	"sort"
	"time"

	"github.com/raykavin/trendline/pkg/core"
)

const (
	durationSecond = float64(time.Second / time.Millisecond)
	durationMinute = durationSecond * 60
	durationHour   = durationMinute * 60
	durationDay    = durationHour * 24
	durationWeek   = durationDay * 7
	durationMonth  = durationDay * 30
	durationYear   = durationDay * 365
)

// Time is a continuous scale over dates. Domain values handed to Map are Unix milliseconds.
type Time struct {
	Domain [2]time.Time
	Span   [2]float64
}

var _ Scale = (*Time)(nil)

// FallbackTimeDomain is used when no row carries a date
var FallbackTimeDomain = [2]time.Time{
	time.Unix(0, 0).UTC(),
	time.Unix(0, 0).UTC().AddDate(0, 0, 1),
}

// NewTime creates a time scale from an extent of Unix milliseconds
func NewTime(extent core.Extent[float64], span [2]float64) *Time {
	domain := FallbackTimeDomain
	if extent.Valid {
		domain = [2]time.Time{core.MillisToTime(extent.Min), core.MillisToTime(extent.Max)}
	}

	return &Time{Domain: domain, Span: span}
}

// Map implements Scale.
func (s *Time) Map(ms float64) float64 {
	return s.linear().Map(ms)
}

// MapTime maps a date to pixels
func (s *Time) MapTime(t time.Time) float64 {
	return s.Map(core.TimeToMillis(t))
}

// Range implements Scale.
func (s *Time) Range() [2]float64 {
	return s.Span
}

// Ticks implements Scale.
func (s *Time) Ticks(count int) []Tick {
	dates := s.TickDates(count)
	ticks := make([]Tick, len(dates))
	for i, t := range dates {
		ticks[i] = Tick{Value: core.TimeToMillis(t), Label: FormatTime(t)}
	}
	return ticks
}

// TickDates returns dates aligned to calendar boundaries, about count of them
func (s *Time) TickDates(count int) []time.Time {
	start, stop := s.Domain[0], s.Domain[1]
	reverse := stop.Before(start)
	if reverse {
		start, stop = stop, start
	}

	if count <= 0 {
		return nil
	}
	if start.Equal(stop) {
		return []time.Time{start}
	}

	iv := chooseInterval(core.TimeToMillis(start), core.TimeToMillis(stop), count)

	var dates []time.Time
	for t := iv.ceil(start); !t.After(stop); t = iv.next(t) {
		dates = append(dates, t)
	}

	if reverse {
		sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	}

	return dates
}

func (s *Time) linear() *Linear {
	return &Linear{
		Domain: [2]float64{core.TimeToMillis(s.Domain[0]), core.TimeToMillis(s.Domain[1])},
		Span:   s.Span,
	}
}

type unit int

const (
	unitMillisecond unit = iota
	unitSecond
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type interval struct {
	unit     unit
	step     int
	duration float64
}

var tickIntervals = []interval{
	{unitSecond, 1, durationSecond},
	{unitSecond, 5, 5 * durationSecond},
	{unitSecond, 15, 15 * durationSecond},
	{unitSecond, 30, 30 * durationSecond},
	{unitMinute, 1, durationMinute},
	{unitMinute, 5, 5 * durationMinute},
	{unitMinute, 15, 15 * durationMinute},
	{unitMinute, 30, 30 * durationMinute},
	{unitHour, 1, durationHour},
	{unitHour, 3, 3 * durationHour},
	{unitHour, 6, 6 * durationHour},
	{unitHour, 12, 12 * durationHour},
	{unitDay, 1, durationDay},
	{unitDay, 2, 2 * durationDay},
	{unitWeek, 1, durationWeek},
	{unitMonth, 1, durationMonth},
	{unitMonth, 3, 3 * durationMonth},
	{unitYear, 1, durationYear},
}

// chooseInterval picks the calendar interval whose length is closest to span/count
func chooseInterval(start, stop float64, count int) interval {
	target := math.Abs(stop-start) / float64(count)

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return tickIntervals[i].duration > target
	})

	switch {
	case i == len(tickIntervals):
		step := int(math.Max(1, math.Round(tickStep(start/durationYear, stop/durationYear, count))))
		return interval{unit: unitYear, step: step, duration: float64(step) * durationYear}
	case i == 0:
		step := int(math.Max(1, math.Round(tickStep(start, stop, count))))
		return interval{unit: unitMillisecond, step: step, duration: float64(step)}
	case target/tickIntervals[i-1].duration < tickIntervals[i].duration/target:
		return tickIntervals[i-1]
	default:
		return tickIntervals[i]
	}
}

// floor truncates t to the start of its unit
func (iv interval) floor(t time.Time) time.Time {
	t = t.UTC()
	switch iv.unit {
	case unitMillisecond:
		return t.Truncate(time.Millisecond)
	case unitSecond:
		return t.Truncate(time.Second)
	case unitMinute:
		return t.Truncate(time.Minute)
	case unitHour:
		return t.Truncate(time.Hour)
	case unitDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case unitWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -int(day.Weekday()))
	case unitMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// advance moves t forward by one unit
func (iv interval) advance(t time.Time) time.Time {
	switch iv.unit {
	case unitMillisecond:
		return t.Add(time.Millisecond)
	case unitSecond:
		return t.Add(time.Second)
	case unitMinute:
		return t.Add(time.Minute)
	case unitHour:
		return t.Add(time.Hour)
	case unitDay:
		return t.AddDate(0, 0, 1)
	case unitWeek:
		return t.AddDate(0, 0, 7)
	case unitMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// field is the calendar field an interval of step > 1 filters on
func (iv interval) field(t time.Time) int {
	switch iv.unit {
	case unitMillisecond:
		return int(t.UnixMilli())
	case unitSecond:
		return t.Second()
	case unitMinute:
		return t.Minute()
	case unitHour:
		return t.Hour()
	case unitDay:
		return t.Day() - 1
	case unitMonth:
		return int(t.Month()) - 1
	case unitYear:
		return t.Year()
	default:
		return 0
	}
}

func (iv interval) matches(t time.Time) bool {
	return iv.step <= 1 || iv.field(t)%iv.step == 0
}

// ceil returns the first boundary at or after t
func (iv interval) ceil(t time.Time) time.Time {
	c := iv.floor(t)
	if c.Before(t) {
		c = iv.advance(c)
	}
	for !iv.matches(c) {
		c = iv.advance(c)
	}
	return c
}

// next returns the boundary following t
func (iv interval) next(t time.Time) time.Time {
	n := iv.advance(t)
	for !iv.matches(n) {
		n = iv.advance(n)
	}
	return n
}

// FormatTime labels a tick with the coarsest calendar unit it sits on
func FormatTime(t time.Time) string {
	t = t.UTC()
	switch {
	case t.Nanosecond() != 0:
		return t.Format(".000")
	case t.Second() != 0:
		return t.Format(":05")
	case t.Minute() != 0:
		return t.Format("03:04")
	case t.Hour() != 0:
		return t.Format("03 PM")
	case t.Day() != 1:
		if t.Weekday() != time.Sunday {
			return t.Format("Mon 02")
		}
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}
