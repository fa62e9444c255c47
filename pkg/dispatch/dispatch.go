// Package dispatch implements the throttle-retry state machine shared by the
// Web API and SCIM clients. It decides how long a call waits between
// attempts, enforces the retry budget, and paces the next caller after a
// success. It performs no network I/O itself; adapters supply the send
// function and signal throttling with ThrottleError.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// MaxThrottleRetries is the fixed number of retries after a throttle signal.
// A call therefore makes at most MaxThrottleRetries+1 send attempts before
// failing with ThrottleExhaustedError. Not configurable per call.
const MaxThrottleRetries = 5

// Prometheus metrics for dispatch operations.
var (
	throttleRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slack_throttle_retries_total",
		Help: "Total retry attempts after server throttle signals by method",
	}, []string{"method"})

	throttleWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slack_throttle_wait_seconds",
		Help:    "Wait duration before throttle retries by method",
		Buckets: []float64{0.5, 1, 3, 10, 30, 60, 120},
	}, []string{"method"})

	throttleExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slack_throttle_exhausted_total",
		Help: "Total calls that spent the whole throttle retry budget by method",
	}, []string{"method"})

	paceSleepSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slack_pace_sleep_seconds",
		Help:    "Post-success pacing sleep duration by method",
		Buckets: []float64{0.1, 0.6, 1.2, 3, 10, 60},
	}, []string{"method"})
)

// attempt is the per-call retry record. It is owned by exactly one in-flight
// call and discarded when the call terminates.
type attempt struct {
	count int
}

// Do executes one logical call under the throttle-retry state machine.
//
// send is invoked with the same context on every attempt; it must return a
// *ThrottleError when the server signals throttling and any other error for
// failures that are not retried here. Arguments and serialization captured
// in the send closure are reused verbatim across retries.
//
// On success Do sleeps the pace interval before returning, so that the next
// call against the same method does not exceed its tier. Both the retry
// wait and the pacing sleep abort when ctx is cancelled; a cancellation
// during a retry wait returns ctx.Err() without another send.
func Do(ctx context.Context, logger zerolog.Logger, method string, pace time.Duration, send func(context.Context) error) error {
	callID := uuid.NewString()
	rec := attempt{}

	for {
		err := send(ctx)
		if err == nil {
			paceSleepSeconds.WithLabelValues(method).Observe(pace.Seconds())
			if rec.count > 0 {
				logger.Info().
					Str("call_id", callID).
					Str("method", method).
					Int("attempts", rec.count+1).
					Msg("Call succeeded after throttle retries")
			}
			// The call itself completed; cancellation only cuts the
			// courtesy pacing short.
			sleep(ctx, pace)
			return nil
		}

		var throttle *ThrottleError
		if !errors.As(err, &throttle) {
			// Transport or protocol failure: propagate, never retried here.
			return err
		}

		rec.count++
		if rec.count > MaxThrottleRetries {
			throttleExhaustedTotal.WithLabelValues(method).Inc()
			logger.Warn().
				Str("call_id", callID).
				Str("method", method).
				Int("attempts", rec.count).
				Msg("Throttle retry budget exhausted")
			return &ThrottleExhaustedError{Method: method, Attempts: rec.count}
		}

		wait := NextDelay(throttle.RetryAfter, pace)

		throttleRetriesTotal.WithLabelValues(method).Inc()
		throttleWaitSeconds.WithLabelValues(method).Observe(wait.Seconds())

		logger.Debug().
			Str("call_id", callID).
			Str("method", method).
			Int("attempt", rec.count).
			Str("server_hint", throttle.RetryAfter).
			Dur("wait", wait).
			Msg("Throttled, waiting before retry")

		select {
		case <-ctx.Done():
			logger.Warn().
				Str("call_id", callID).
				Str("method", method).
				Int("attempt", rec.count).
				Msg("Context cancelled during throttle wait")
			return fmt.Errorf("throttle wait for %s: %w", method, ctx.Err())
		case <-time.After(wait):
		}
	}
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
