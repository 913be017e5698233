package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dm/halla-watch/internal/model"
)

const endpointCoursePerson = "/reservation/coursePersonAjax.do"

// CheckAvailability fetches the counters for one course, visit date
// (YYYY.MM.DD) and time slot, and derives whether places are left.
func (c *DefaultClient) CheckAvailability(ctx context.Context, courseSeq, visitDt, visitTm string) (*model.Availability, error) {
	form := url.Values{}
	form.Set("courseSeq", courseSeq)
	form.Set("visitDt", visitDt)
	form.Set("visitTm", visitTm)

	body, err := c.doPostForm(ctx, endpointCoursePerson, form)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			fe.CourseSeq, fe.VisitDt = courseSeq, visitDt
		}
		return nil, err
	}

	a, err := parseCourseResponse(body)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.CourseSeq, pe.VisitDt = courseSeq, visitDt
		}
		return nil, err
	}
	a.CourseSeq = courseSeq
	return a, nil
}

func parseCourseResponse(body []byte) (*model.Availability, error) {
	var resp CourseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decode: %w", err)}
	}
	if resp.CoursePerson == nil {
		return nil, &ParseError{Field: "coursePerson", Err: errors.New("missing")}
	}

	reserve, err := parseCount("reserveCnt", string(resp.CoursePerson.ReserveCnt))
	if err != nil {
		return nil, err
	}
	limit, err := parseCount("limitCnt", string(resp.CoursePerson.LimitCnt))
	if err != nil {
		return nil, err
	}

	a := model.NewAvailability("", reserve, limit)
	return &a, nil
}

func parseCount(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{Field: field, Value: raw, Err: errors.New("not a number")}
	}
	if n < 0 {
		return 0, &ParseError{Field: field, Value: raw, Err: errors.New("negative")}
	}
	return n, nil
}
