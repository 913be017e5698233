package model

// Availability is the parsed result of one SlotQuery.
type Availability struct {
	CourseSeq  string `json:"seq"`
	CourseName string `json:"name"`
	ReserveCnt int    `json:"reserve_cnt"`
	LimitCnt   int    `json:"limit_cnt"`
	Available  bool   `json:"available"`
}

// NewAvailability derives Available from the two counters.
func NewAvailability(courseSeq string, reserveCnt, limitCnt int) Availability {
	return Availability{
		CourseSeq:  courseSeq,
		ReserveCnt: reserveCnt,
		LimitCnt:   limitCnt,
		Available:  reserveCnt < limitCnt,
	}
}

// Remaining returns the number of free places, never negative.
func (a Availability) Remaining() int {
	if a.ReserveCnt >= a.LimitCnt {
		return 0
	}
	return a.LimitCnt - a.ReserveCnt
}

// Occupancy returns ReserveCnt/LimitCnt clamped to [0, 1].
// A zero limit counts as fully occupied.
func (a Availability) Occupancy() float64 {
	if a.LimitCnt <= 0 {
		return 1
	}
	r := float64(a.ReserveCnt) / float64(a.LimitCnt)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
