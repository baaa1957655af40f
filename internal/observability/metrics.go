// Package observability holds Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostsCreated counts posts created through any write surface.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronicle_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts comments appended to posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chronicle_comments_created_total",
		Help: "Total number of comments created",
	})

	// UploadsTotal counts featured-image uploads by outcome.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chronicle_uploads_total",
		Help: "Total number of featured image uploads by outcome",
	}, []string{"outcome"})
)

// NewHTTPMetrics returns the Fiber Prometheus middleware for per-route
// request metrics, registered under the given service name.
func NewHTTPMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}
