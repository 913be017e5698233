package model

// Course is a trail whose reservations are watched. Seq is the opaque
// identifier the reservation system uses (courseSeq).
type Course struct {
	Seq  string `yaml:"seq" json:"seq"`
	Name string `yaml:"name" json:"name"`
}

// WatchDate is a visit date in the reservation system's YYYY.MM.DD format
// plus the label shown to the watcher.
type WatchDate struct {
	Date  string `yaml:"date" json:"date"`
	Label string `yaml:"label" json:"label"`
}

// DefaultTimeSlot is the first entry slot of the day (05:00).
const DefaultTimeSlot = "TIME1"

// SlotQuery is the unit of a single availability check.
type SlotQuery struct {
	Course   Course
	Date     WatchDate
	TimeSlot string
}

// SlotQueries returns the cross product of dates × courses in date-major
// order, which is the full set of checks making up one sweep.
func SlotQueries(courses []Course, dates []WatchDate, timeSlot string) []SlotQuery {
	out := make([]SlotQuery, 0, len(courses)*len(dates))
	for _, d := range dates {
		for _, c := range courses {
			out = append(out, SlotQuery{Course: c, Date: d, TimeSlot: timeSlot})
		}
	}
	return out
}
