package rest

import (
	"attestation-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BuildRouter registers route descriptors onto a gin engine, grouped by
// route group prefix.
func BuildRouter(routes []Route) *gin.Engine {
	router := gin.Default()

	groups := map[string]*gin.RouterGroup{}
	for _, r := range routes {
		if _, exists := groups[r.Group]; !exists {
			groups[r.Group] = router.Group("/" + r.Group)
		}

		group := groups[r.Group]

		switch r.Method {
		case GET:
			group.GET(r.Path, r.HandlerFunc)
		case POST:
			group.POST(r.Path, r.HandlerFunc)
		default:
			logger.Default().Warnf("Unrecognized HTTP method: %d", r.Method)
		}
	}

	return router
}
