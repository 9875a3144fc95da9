package app

import (
	"gorm.io/gorm"

	bucketrepo "github.com/yungbote/datahub-backend/internal/data/repos/bucket"
	tablerepo "github.com/yungbote/datahub-backend/internal/data/repos/table"
	userrepo "github.com/yungbote/datahub-backend/internal/data/repos/user"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
)

type Repos struct {
	User           userrepo.UserRepo
	Bucket         bucketrepo.BucketRepo
	BucketMetadata bucketrepo.BucketMetadataRepo
	Table          tablerepo.TableRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           userrepo.NewUserRepo(db, log),
		Bucket:         bucketrepo.NewBucketRepo(db, log),
		BucketMetadata: bucketrepo.NewBucketMetadataRepo(db, log),
		Table:          tablerepo.NewTableRepo(db, log),
	}
}
