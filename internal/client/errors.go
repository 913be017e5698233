package client

import (
	"errors"
	"fmt"
)

// FetchError reports that the reservation endpoint could not be reached or
// answered with a non-success status. It carries no partial data.
type FetchError struct {
	CourseSeq  string
	VisitDt    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.CourseSeq == "" {
		return fmt.Sprintf("fetch: %v", e.Err)
	}
	return fmt.Sprintf("fetch course %s on %s: %v", e.CourseSeq, e.VisitDt, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response that lacks numeric occupancy/limit fields.
type ParseError struct {
	CourseSeq string
	VisitDt   string
	Field     string
	Value     string
	Err       error
}

func (e *ParseError) Error() string {
	msg := "parse response"
	if e.CourseSeq != "" {
		msg = fmt.Sprintf("parse course %s on %s", e.CourseSeq, e.VisitDt)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %s=%q", e.Field, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsParseError reports whether err wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
