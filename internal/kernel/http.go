// Package kernel builds the HTTP handler: the global middleware stack,
// the metrics endpoint and the API routes.
package kernel

import (
	"time"

	"github.com/chenweihao/weishop/app/routes"
	"github.com/chenweihao/weishop/pkg/metrics"
	"github.com/chenweihao/weishop/pkg/middleware"
	"github.com/chenweihao/weishop/pkg/reqid"
	"github.com/chenweihao/weishop/pkg/router"
	"gorm.io/gorm"
)

// Build assembles the router with the global middleware stack
// (outermost first):
//
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — set CORS headers
//  6. Rate limiter       — reject abusers early
func Build(db *gorm.DB) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus scrape endpoint.
	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, db)
	return r
}
