package client

import (
	"bytes"
	"encoding/json"
)

// CourseResponse is the body returned by coursePersonAjax.do.
type CourseResponse struct {
	Result       string        `json:"result"`
	CoursePerson *CoursePerson `json:"coursePerson"`
}

// CoursePerson holds the capacity counters for one course/date/slot.
type CoursePerson struct {
	LimitCnt   NumericString `json:"limitCnt"`
	ReserveCnt NumericString `json:"reserveCnt"`
}

// NumericString accepts a JSON string or a bare JSON number. The endpoint
// sends counters as strings; numbers are tolerated.
type NumericString string

func (n *NumericString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	*n = NumericString(b)
	return nil
}
