package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var sideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_side_effect_failures_total",
	Help: "Background side effects that returned an error or panicked.",
}, []string{"task"})

func init() {
	prometheus.MustRegister(sideEffectFailures)
}

// Dispatcher runs fire-and-forget work (email, storage cleanup) after the
// primary write has been committed. Failures are logged and reported, never
// returned to the caller.
type Dispatcher struct {
	log     zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(log zerolog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{log: log, timeout: timeout}
}

// Go starts fn on its own goroutine with a fresh context; the request
// context is not used because it ends with the response.
func (d *Dispatcher) Go(task string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.fail(task, fmt.Errorf("panic: %v", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.fail(task, err)
		}
	}()
}

func (d *Dispatcher) fail(task string, err error) {
	sideEffectFailures.WithLabelValues(task).Inc()
	d.log.Error().Err(err).Str("task", task).Msg("background task failed")
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("task", task)
		sentry.CaptureException(err)
	})
}

// Wait blocks until in-flight tasks finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
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
