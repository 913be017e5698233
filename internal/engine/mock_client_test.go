package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dm/halla-watch/internal/client"
	"github.com/dm/halla-watch/internal/model"
)

// MockReservationClient implements client.ReservationClient for testing.
type MockReservationClient struct {
	CheckFn func(ctx context.Context, courseSeq, visitDt, visitTm string) (*model.Availability, error)

	calls atomic.Int32
	mu    sync.Mutex
	seen  []model.SlotQuery
}

var _ client.ReservationClient = (*MockReservationClient)(nil)

func (m *MockReservationClient) CheckAvailability(ctx context.Context, courseSeq, visitDt, visitTm string) (*model.Availability, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.seen = append(m.seen, model.SlotQuery{
		Course:   model.Course{Seq: courseSeq},
		Date:     model.WatchDate{Date: visitDt},
		TimeSlot: visitTm,
	})
	m.mu.Unlock()

	if m.CheckFn != nil {
		return m.CheckFn(ctx, courseSeq, visitDt, visitTm)
	}
	a := model.NewAvailability(courseSeq, 10, 10)
	return &a, nil
}

func (m *MockReservationClient) BaseURL() string {
	return "http://mock"
}

func (m *MockReservationClient) Calls() int { return int(m.calls.Load()) }

// counts returns a CheckFn answering reserve/limit for every query.
func counts(reserve, limit int) func(context.Context, string, string, string) (*model.Availability, error) {
	return func(_ context.Context, seq, _, _ string) (*model.Availability, error) {
		a := model.NewAvailability(seq, reserve, limit)
		return &a, nil
	}
}

var (
	testCourses = []model.Course{
		{Seq: "244", Name: "Gwaneumsa"},
		{Seq: "242", Name: "Seongpanak"},
	}
	testDates = []model.WatchDate{
		{Date: "2024.12.28", Label: "Dec 28"},
		{Date: "2024.12.29", Label: "Dec 29"},
	}
)

var errMockFailure = &client.FetchError{Err: errors.New("mock failure")}
