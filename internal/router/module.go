package router

import "github.com/gin-gonic/gin"

// Module is a feature that registers its routes under the /api group.
// Modules build their own middleware chains; the registry only adds the
// group-wide middleware passed to Use.
type Module interface {
	Register(rg *gin.RouterGroup)
}
