// Package notifier delivers availability alerts to the watcher.
package notifier

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/dm/halla-watch/internal/model"
)

// Notifier delivers a single alert.
type Notifier interface {
	Notify(ctx context.Context, alert model.Alert) error
}

// Dispatcher fans alerts out to every notifier without blocking the caller.
type Dispatcher struct {
	notifiers []Notifier
	logger    *log.Logger
	wg        sync.WaitGroup
}

// NewDispatcher returns a Dispatcher. A nil logger uses log.Default().
func NewDispatcher(logger *log.Logger, notifiers ...Notifier) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// Dispatch starts one goroutine per (alert, notifier) and returns at once.
// Failures are logged and otherwise dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []model.Alert) {
	if d == nil {
		return
	}
	for _, a := range alerts {
		for _, n := range d.notifiers {
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				if err := n.Notify(ctx, a); err != nil {
					d.logger.Printf("notify %s: %v", a.Key(), err)
				}
			}()
		}
	}
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

// Drain waits for dispatched notifications like Wait, but gives up when
// ctx is done and returns ctx.Err().
func (d *Dispatcher) Drain(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogNotifier writes one log line per alert.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ context.Context, a model.Alert) error {
	l := n.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf("ALERT %s", a.Message())
	return nil
}

// BellNotifier rings the terminal bell. With Verbose set it also prints
// the alert; leave it off when a full-screen UI owns the terminal.
type BellNotifier struct {
	mu      sync.Mutex
	W       io.Writer
	Verbose bool
}

func (n *BellNotifier) Notify(_ context.Context, a model.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.Verbose {
		_, err := io.WriteString(n.W, "\a")
		return err
	}
	_, err := fmt.Fprintf(n.W, "\a%s\n", a.Message())
	return err
}
