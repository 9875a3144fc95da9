package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/services"
)

type BucketHandler struct {
	bucketService services.BucketService
}

func NewBucketHandler(bucketService services.BucketService) *BucketHandler {
	return &BucketHandler{bucketService: bucketService}
}

func bucketIDFrom(c *gin.Context) (uuid.UUID, error) {
	bucketID, err := uuid.Parse(c.Query("bucket_id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid bucket id")
	}
	return bucketID, nil
}

type bucketCreateRequest struct {
	BucketName string `json:"bucket_name" binding:"required"`
}

func (bh *BucketHandler) Create(c *gin.Context) {
	var req bucketCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid bucket payload", err))
		return
	}
	bucket, err := bh.bucketService.Create(c.Request.Context(), PrincipalFrom(c), req.BucketName)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, bucket)
}

func (bh *BucketHandler) Delete(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := bh.bucketService.Delete(c.Request.Context(), PrincipalFrom(c), bucketID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Bucket deleted successfully."})
}

func (bh *BucketHandler) Empty(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := bh.bucketService.Empty(c.Request.Context(), PrincipalFrom(c), bucketID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Bucket emptied successfully."})
}

func (bh *BucketHandler) ListAll(c *gin.Context) {
	skip, limit := pagination(c, 100)
	buckets, err := bh.bucketService.ListAll(c.Request.Context(), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, buckets)
}

func (bh *BucketHandler) ListOwned(c *gin.Context) {
	skip, limit := pagination(c, 100)
	buckets, err := bh.bucketService.ListOwned(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, buckets)
}

func (bh *BucketHandler) ListShared(c *gin.Context) {
	skip, limit := pagination(c, 100)
	buckets, err := bh.bucketService.ListShared(c.Request.Context(), PrincipalFrom(c), skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, buckets)
}

// Upload accepts a multipart form with one or more entries under "files".
func (bh *BucketHandler) Upload(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid multipart payload", err))
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		RespondError(c, apperr.Validation("no files provided"))
		return
	}

	files := make([]services.UploadInput, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			RespondError(c, apperr.Wrap(apperr.KindValidation, "failed to open uploaded file", err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			RespondError(c, apperr.Wrap(apperr.KindValidation, "failed to read uploaded file", err))
			return
		}
		files = append(files, services.UploadInput{Name: header.Filename, Data: data})
	}

	if err := bh.bucketService.Upload(c.Request.Context(), PrincipalFrom(c), bucketID, files); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Files uploaded successfully.", "count": len(files)})
}

// Download streams a single object back to the caller.
func (bh *BucketHandler) Download(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	fileName := c.Query("file_name")
	if fileName == "" {
		RespondError(c, apperr.Validation("file_name is required"))
		return
	}
	reader, err := bh.bucketService.Download(c.Request.Context(), PrincipalFrom(c), bucketID, fileName)
	if err != nil {
		RespondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are gone; all we can do is log through gin's error sink.
		_ = c.Error(err)
	}
}

func (bh *BucketHandler) DownloadZip(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	archive, err := bh.bucketService.DownloadZip(c.Request.Context(), PrincipalFrom(c), bucketID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bucket.zip"`)
	c.Data(http.StatusOK, "application/zip", archive)
}

func (bh *BucketHandler) DeleteObject(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	fileName := c.Query("file_name")
	if fileName == "" {
		RespondError(c, apperr.Validation("file_name is required"))
		return
	}
	if err := bh.bucketService.DeleteObject(c.Request.Context(), PrincipalFrom(c), bucketID, fileName); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "File deleted successfully."})
}

func (bh *BucketHandler) ListObjectKeys(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	keys, err := bh.bucketService.ListObjectKeys(c.Request.Context(), PrincipalFrom(c), bucketID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"file_names": keys})
}

type shareRequest struct {
	UserEmail string `json:"user_email" binding:"required"`
}

func (bh *BucketHandler) Share(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid share payload", err))
		return
	}
	if err := bh.bucketService.Share(c.Request.Context(), PrincipalFrom(c), bucketID, req.UserEmail); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Bucket shared with user successfully."})
}

type unshareRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

func (bh *BucketHandler) Unshare(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req unshareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid stop-share payload", err))
		return
	}
	if err := bh.bucketService.Unshare(c.Request.Context(), PrincipalFrom(c), bucketID, req.UserID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Bucket sharing stopped with user successfully."})
}

func (bh *BucketHandler) SharedUsers(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	skip, limit := pagination(c, 100)
	users, err := bh.bucketService.SharedUsers(c.Request.Context(), PrincipalFrom(c), bucketID, skip, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, users)
}

type metadataRequest struct {
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (bh *BucketHandler) CreateMetadata(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid metadata payload", err))
		return
	}
	metadata, err := bh.bucketService.CreateMetadata(c.Request.Context(), PrincipalFrom(c), bucketID, services.MetadataInput{
		Author:      req.Author,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, metadata)
}

func (bh *BucketHandler) GetMetadataByBucket(c *gin.Context) {
	bucketID, err := bucketIDFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	metadata, err := bh.bucketService.GetMetadataByBucket(c.Request.Context(), PrincipalFrom(c), bucketID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, metadata)
}

func (bh *BucketHandler) UpdateMetadata(c *gin.Context) {
	metadataID, err := uuid.Parse(c.Query("metadata_id"))
	if err != nil {
		RespondError(c, apperr.Validation("invalid metadata id"))
		return
	}
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid metadata payload", err))
		return
	}
	metadata, err := bh.bucketService.UpdateMetadata(c.Request.Context(), PrincipalFrom(c), metadataID, services.MetadataInput{
		Author:      req.Author,
		Description: req.Description,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, metadata)
}

func (bh *BucketHandler) DeleteMetadata(c *gin.Context) {
	metadataID, err := uuid.Parse(c.Query("metadata_id"))
	if err != nil {
		RespondError(c, apperr.Validation("invalid metadata id"))
		return
	}
	if err := bh.bucketService.DeleteMetadata(c.Request.Context(), PrincipalFrom(c), metadataID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Bucket metadata deleted successfully."})
}
