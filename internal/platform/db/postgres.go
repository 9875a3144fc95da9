package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "datahub", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&domain.User{},
		&domain.Bucket{},
		&domain.BucketMetadata{},
		&domain.Table{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		table    string
		name     string
		fk       string
		refs     string
		onDelete string
	}{
		{"bucket", "fk_bucket_owner_id", "owner_id", `"user"("id")`, "SET NULL"},
		{"table_registry", "fk_table_registry_owner_id", "owner_id", `"user"("id")`, "SET NULL"},
		{"bucket_metadata", "fk_bucket_metadata_bucket_id", "bucket_id", `"bucket"("id")`, "CASCADE"},
		{"user_bucket_relation", "fk_user_bucket_relation_user_id", "user_id", `"user"("id")`, "CASCADE"},
		{"user_bucket_relation", "fk_user_bucket_relation_bucket_id", "bucket_id", `"bucket"("id")`, "CASCADE"},
		{"user_table_relation", "fk_user_table_relation_user_id", "user_id", `"user"("id")`, "CASCADE"},
		{"user_table_relation", "fk_user_table_relation_table_id", "table_id", `"table_registry"("id")`, "CASCADE"},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			return fmt.Errorf("failed to reset constraint %s: %w", c.name, err)
		}
		add := fmt.Sprintf(
			`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %s ON DELETE %s`,
			c.table, c.name, c.fk, c.refs, c.onDelete,
		)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
