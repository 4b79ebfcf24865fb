package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup registers one area of the API on a router group.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// routeGroups lists the API areas in registration order.
func routeGroups(cfg *RouterConfig) []RouteGroup {
	return []RouteGroup{
		NewStorefrontRoutes(cfg),
		NewAdminRoutes(cfg),
	}
}
