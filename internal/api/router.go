package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"pulse-dashboard/internal/api/handler"
	"pulse-dashboard/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/healthz", h.Health)

	r.GET("/api/v1/pages", h.ListPages)
	// More specific routes first
	r.GET("/api/v1/pages/*/filters", h.GetPageFilters)
	r.GET("/api/v1/pages/*", h.GetPage)

	r.GET("/api/v1/datasets", h.ListDatasets)
	r.GET("/api/v1/datasets/*/distinct", h.GetDistinct)
	r.POST("/api/v1/datasets/*/aggregate", h.Aggregate)

	r.GET("/api/v1/regions", h.GetRegions)

	r.GET("/swagger/**", router.HandlerFunc(httpSwagger.WrapHandler))
}
