package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:    handlerset.Auth,
		AuthMiddleware: middlewareset.Auth,
		UserHandler:    handlerset.User,
		BucketHandler:  handlerset.Bucket,
		TableHandler:   handlerset.Table,
		SaveHandler:    handlerset.Save,
		QueryHandler:   handlerset.Query,
	})
}
