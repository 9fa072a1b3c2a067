package llm

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/hairmatch/internal/metrics"
)

// newBreaker opens after failures consecutive errors and probes again after timeout.
func newBreaker(name string, failures uint32, timeout time.Duration, logger *zap.Logger) *gobreaker.CircuitBreaker[string] {
	metrics.SetCircuitBreakerState(name, int(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
