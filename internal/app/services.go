package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/ingest"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/platform/objectstore"
	"github.com/yungbote/datahub-backend/internal/query"
	"github.com/yungbote/datahub-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	User   services.UserService
	Bucket services.BucketService
	Table  services.TableService
}

func wireServices(ctx context.Context, db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	store, err := objectstore.NewGCSClient(ctx, log)
	if err != nil {
		return Services{}, err
	}

	pipeline := ingest.NewPipeline(db, log, reposet.Table)
	engine := query.NewEngine(db, log)

	authService := services.NewAuthService(log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	userService := services.NewUserService(log, reposet.User, cfg.UsersOpenRegistration)
	bucketService := services.NewBucketService(log, reposet.Bucket, reposet.BucketMetadata, reposet.User, store)
	tableService := services.NewTableService(log, reposet.Table, reposet.User, pipeline, engine)

	return Services{
		Auth:   authService,
		User:   userService,
		Bucket: bucketService,
		Table:  tableService,
	}, nil
}
