package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amit001112/HospitalBilling/internal/platform/metrics"
)

// Metrics records request counts and latency by route template, so
// /api/bills/1 and /api/bills/2 share a series.
func Metrics(m *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}
			start := time.Now()
			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				status = statusOf(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			req := c.Request()
			m.RequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
