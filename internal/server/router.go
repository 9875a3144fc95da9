package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/handlers"
	"github.com/yungbote/datahub-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	BucketHandler  *handlers.BucketHandler
	TableHandler   *handlers.TableHandler
	SaveHandler    *handlers.SaveHandler
	QueryHandler   *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")

	// Public
	api.POST("/login/access-token", cfg.AuthHandler.Login)
	api.POST("/users/open", cfg.UserHandler.CreateOpen)

	// Authenticated
	authed := api.Group("")
	authed.Use(cfg.AuthMiddleware.RequireAuth())

	active := authed.Group("")
	active.Use(cfg.AuthMiddleware.RequireActiveUser())

	admin := active.Group("")
	admin.Use(cfg.AuthMiddleware.RequireSuperuser())

	// Users
	admin.GET("/users", cfg.UserHandler.List)
	admin.POST("/users", cfg.UserHandler.Create)
	admin.PUT("/users", cfg.UserHandler.Update)
	active.GET("/users/me", cfg.UserHandler.GetMe)
	active.PUT("/users/me", cfg.UserHandler.UpdateMe)
	active.GET("/users/:user_id", cfg.UserHandler.GetByID)

	// Files: bucket containers, objects, metadata, sharing
	files := active.Group("/files")
	files.POST("/create-bucket", cfg.BucketHandler.Create)
	files.DELETE("/delete-bucket", cfg.BucketHandler.Delete)
	files.DELETE("/empty-bucket", cfg.BucketHandler.Empty)
	files.GET("/list-owned-buckets", cfg.BucketHandler.ListOwned)
	files.GET("/list-shared-buckets", cfg.BucketHandler.ListShared)
	files.POST("/upload", cfg.BucketHandler.Upload)
	files.GET("/download", cfg.BucketHandler.Download)
	files.GET("/download-zip", cfg.BucketHandler.DownloadZip)
	files.DELETE("/delete", cfg.BucketHandler.DeleteObject)
	files.GET("/get-file-names-in-bucket", cfg.BucketHandler.ListObjectKeys)
	files.POST("/share", cfg.BucketHandler.Share)
	files.POST("/stop-share", cfg.BucketHandler.Unshare)
	files.GET("/retrieve-shared-users", cfg.BucketHandler.SharedUsers)
	files.GET("/retrieve-metadata-by-bucket", cfg.BucketHandler.GetMetadataByBucket)
	files.POST("/metadata", cfg.BucketHandler.CreateMetadata)
	files.PUT("/metadata", cfg.BucketHandler.UpdateMetadata)
	files.DELETE("/metadata", cfg.BucketHandler.DeleteMetadata)
	admin.GET("/files/list-all-buckets", cfg.BucketHandler.ListAll)

	// Save: ingest a file into a queryable table, drop a table
	save := active.Group("/save")
	save.POST("", cfg.SaveHandler.Ingest)
	save.DELETE("/:table_name", cfg.SaveHandler.Drop)

	// Queries: table-name listings plus per-table reads
	queries := active.Group("/queries")
	queries.GET("/owned-table-names", cfg.QueryHandler.OwnedTableNames)
	queries.GET("/shared-table-names", cfg.QueryHandler.SharedTableNames)
	queries.GET("/:table_name", cfg.QueryHandler.Query)
	queries.GET("/:table_name/total-number-of-records", cfg.QueryHandler.Count)
	queries.GET("/:table_name/column-names", cfg.QueryHandler.ColumnNames)
	admin.GET("/queries/all-table-names", cfg.QueryHandler.AllTableNames)

	// Tables: registry rows and sharing
	tables := active.Group("/tables")
	tables.GET("/list-owned-tables", cfg.TableHandler.ListOwned)
	tables.GET("/list-shared-tables", cfg.TableHandler.ListShared)
	tables.POST("", cfg.TableHandler.Create)
	tables.PUT("", cfg.TableHandler.Update)
	tables.DELETE("", cfg.TableHandler.Delete)
	tables.POST("/share", cfg.TableHandler.Share)
	tables.POST("/stop-share", cfg.TableHandler.Unshare)
	tables.GET("/retrieve-shared-users", cfg.TableHandler.SharedUsers)
	admin.GET("/tables/list-all-tables", cfg.TableHandler.ListAll)

	return router
}
