package app

import (
	"github.com/yungbote/datahub-backend/internal/handlers"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	User   *handlers.UserHandler
	Bucket *handlers.BucketHandler
	Table  *handlers.TableHandler
	Save   *handlers.SaveHandler
	Query  *handlers.QueryHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:   handlers.NewAuthHandler(serviceset.Auth),
		User:   handlers.NewUserHandler(serviceset.User),
		Bucket: handlers.NewBucketHandler(serviceset.Bucket),
		Table:  handlers.NewTableHandler(serviceset.Table),
		Save:   handlers.NewSaveHandler(serviceset.Table),
		Query:  handlers.NewQueryHandler(serviceset.Table),
	}
}
