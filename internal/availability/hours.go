package availability

import "time"

// DayHours defines the open window for one weekday. Hours are local clock
// hours with Close exclusive: Open=18, Close=20 means slots may start at
// 18:00 and the last one ends at 20:00. A zero value means closed all day.
type DayHours struct {
	Open  int `yaml:"open"`
	Close int `yaml:"close"`
}

// Closed reports whether no slots are bookable on this day.
func (d DayHours) Closed() bool {
	return d.Close <= d.Open
}

// Hours maps each weekday to its open window. The studio policy is a named
// parameter set so tests and config can swap it out.
type Hours map[time.Weekday]DayHours

// DefaultHours returns the studio schedule: weekday evenings 6–8 PM,
// weekends 8 AM–8 PM.
func DefaultHours() Hours {
	h := Hours{
		time.Saturday: {Open: 8, Close: 20},
		time.Sunday:   {Open: 8, Close: 20},
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		h[wd] = DayHours{Open: 18, Close: 20}
	}
	return h
}

// IsOpen reports whether t falls inside business hours. Pure function of
// day-of-week and hour.
func (h Hours) IsOpen(t time.Time) bool {
	d, ok := h[t.Weekday()]
	if !ok || d.Closed() {
		return false
	}
	return t.Hour() >= d.Open && t.Hour() < d.Close
}

// slotFits reports whether the whole interval [start, end) lies inside the
// open window of start's day.
func (h Hours) slotFits(start, end time.Time) bool {
	d, ok := h[start.Weekday()]
	if !ok || d.Closed() {
		return false
	}
	open := time.Date(start.Year(), start.Month(), start.Day(), d.Open, 0, 0, 0, start.Location())
	close := time.Date(start.Year(), start.Month(), start.Day(), d.Close, 0, 0, 0, start.Location())
	return !start.Before(open) && !end.After(close)
}
