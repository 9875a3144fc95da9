package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/access"
	bucketrepo "github.com/yungbote/datahub-backend/internal/data/repos/bucket"
	userrepo "github.com/yungbote/datahub-backend/internal/data/repos/user"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/platform/objectstore"
)

// fanOutLimit bounds concurrent object-store calls during multi-object
// operations (upload, empty, zip download).
const fanOutLimit = 8

// UploadInput is one file of a multi-file upload, fully buffered.
type UploadInput struct {
	Name string
	Data []byte
}

// MetadataInput carries the caller-supplied bucket annotation fields.
type MetadataInput struct {
	Author      string
	Description string
}

type BucketService interface {
	Create(ctx context.Context, principal *domain.User, bucketName string) (*domain.Bucket, error)
	Delete(ctx context.Context, principal *domain.User, bucketID uuid.UUID) error
	Empty(ctx context.Context, principal *domain.User, bucketID uuid.UUID) error
	ListAll(ctx context.Context, skip, limit int) ([]*domain.Bucket, error)
	ListOwned(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Bucket, error)
	ListShared(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Bucket, error)
	Upload(ctx context.Context, principal *domain.User, bucketID uuid.UUID, files []UploadInput) error
	Download(ctx context.Context, principal *domain.User, bucketID uuid.UUID, fileName string) (io.ReadCloser, error)
	DownloadZip(ctx context.Context, principal *domain.User, bucketID uuid.UUID) ([]byte, error)
	DeleteObject(ctx context.Context, principal *domain.User, bucketID uuid.UUID, fileName string) error
	ListObjectKeys(ctx context.Context, principal *domain.User, bucketID uuid.UUID) ([]string, error)
	Share(ctx context.Context, principal *domain.User, bucketID uuid.UUID, userEmail string) error
	Unshare(ctx context.Context, principal *domain.User, bucketID, userID uuid.UUID) error
	SharedUsers(ctx context.Context, principal *domain.User, bucketID uuid.UUID, skip, limit int) ([]*domain.User, error)
	CreateMetadata(ctx context.Context, principal *domain.User, bucketID uuid.UUID, in MetadataInput) (*domain.BucketMetadata, error)
	GetMetadataByBucket(ctx context.Context, principal *domain.User, bucketID uuid.UUID) (*domain.BucketMetadata, error)
	UpdateMetadata(ctx context.Context, principal *domain.User, metadataID uuid.UUID, in MetadataInput) (*domain.BucketMetadata, error)
	DeleteMetadata(ctx context.Context, principal *domain.User, metadataID uuid.UUID) error
}

type bucketService struct {
	log          *logger.Logger
	bucketRepo   bucketrepo.BucketRepo
	metadataRepo bucketrepo.BucketMetadataRepo
	userRepo     userrepo.UserRepo
	store        objectstore.Client
}

func NewBucketService(
	baseLog *logger.Logger,
	bucketRepo bucketrepo.BucketRepo,
	metadataRepo bucketrepo.BucketMetadataRepo,
	userRepo userrepo.UserRepo,
	store objectstore.Client,
) BucketService {
	serviceLog := baseLog.With("service", "BucketService")
	return &bucketService{
		log:          serviceLog,
		bucketRepo:   bucketRepo,
		metadataRepo: metadataRepo,
		userRepo:     userRepo,
		store:        store,
	}
}

// resolveBucket loads the bucket and runs the access decision for the
// principal. Missing buckets are NotFound before any permission check so the
// two failure modes never blur together.
func (bs *bucketService) resolveBucket(ctx context.Context, principal *domain.User, bucketID uuid.UUID, policy access.Policy) (*domain.Bucket, error) {
	bucket, err := bs.bucketRepo.GetByID(ctx, nil, bucketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no bucket found with the bucket_id provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load bucket", err)
	}
	sharedIDs, err := bs.userRepo.SharedBucketIDs(ctx, nil, principal.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load shared bucket grants", err)
	}
	if _, err := access.Resolve(access.NewPrincipal(principal, sharedIDs), bucket, policy); err != nil {
		return nil, err
	}
	return bucket, nil
}

// Create provisions the physical container first and only then writes the
// registry row; a failed row write tears the container back down.
func (bs *bucketService) Create(ctx context.Context, principal *domain.User, bucketName string) (*domain.Bucket, error) {
	if bucketName == "" {
		return nil, apperr.Validation("bucket_name is required")
	}
	if err := bs.store.CreateBucket(ctx, bucketName); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, fmt.Sprintf("bucket creation failed for %q", bucketName), err)
	}

	bucket := &domain.Bucket{BucketName: bucketName, OwnerID: &principal.ID}
	created, err := bs.bucketRepo.Create(ctx, nil, bucket)
	if err != nil {
		if delErr := bs.store.DeleteBucket(ctx, bucketName); delErr != nil {
			bs.log.Error("Failed to remove container after registry write failure",
				"bucket_name", bucketName, "error", delErr)
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to create bucket registry row", err)
	}
	bs.log.Info("Created bucket", "bucket_id", created.ID, "bucket_name", bucketName, "owner_id", principal.ID)
	return created, nil
}

// Delete empties the container, removes it, then removes the registry row.
// Each step only runs once the previous one fully succeeded.
func (bs *bucketService) Delete(ctx context.Context, principal *domain.User, bucketID uuid.UUID) error {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict)
	if err != nil {
		return err
	}
	if err := bs.emptyContainer(ctx, bucket.BucketName); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to empty bucket before deletion", err)
	}
	if err := bs.store.DeleteBucket(ctx, bucket.BucketName); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to delete bucket container", err)
	}
	if err := bs.bucketRepo.Delete(ctx, nil, bucketID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to delete bucket registry row", err)
	}
	bs.log.Info("Deleted bucket", "bucket_id", bucketID, "bucket_name", bucket.BucketName)
	return nil
}

func (bs *bucketService) Empty(ctx context.Context, principal *domain.User, bucketID uuid.UUID) error {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict)
	if err != nil {
		return err
	}
	if err := bs.emptyContainer(ctx, bucket.BucketName); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to empty bucket", err)
	}
	return nil
}

// emptyContainer deletes every object with bounded fan-out. All workers run
// to completion; per-object failures are joined so one bad key does not mask
// the rest.
func (bs *bucketService) emptyContainer(ctx context.Context, bucketName string) error {
	keys, err := bs.store.ListObjects(ctx, bucketName)
	if err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	errs := make([]error, len(keys))
	for i, key := range keys {
		g.Go(func() error {
			if err := bs.store.DeleteObject(ctx, bucketName, key); err != nil {
				errs[i] = fmt.Errorf("delete object %q: %w", key, err)
			}
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

func (bs *bucketService) ListAll(ctx context.Context, skip, limit int) ([]*domain.Bucket, error) {
	buckets, err := bs.bucketRepo.List(ctx, nil, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list buckets", err)
	}
	return buckets, nil
}

func (bs *bucketService) ListOwned(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Bucket, error) {
	buckets, err := bs.bucketRepo.ListByOwner(ctx, nil, principal.ID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list owned buckets", err)
	}
	return buckets, nil
}

func (bs *bucketService) ListShared(ctx context.Context, principal *domain.User, skip, limit int) ([]*domain.Bucket, error) {
	buckets, err := bs.bucketRepo.ListSharedWith(ctx, nil, principal.ID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list shared buckets", err)
	}
	return buckets, nil
}

// Upload stores every file with bounded fan-out; per-file failures are
// aggregated rather than aborting the batch.
func (bs *bucketService) Upload(ctx context.Context, principal *domain.User, bucketID uuid.UUID, files []UploadInput) error {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict)
	if err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	errs := make([]error, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := bs.store.PutObject(ctx, bucket.BucketName, file.Name, bytes.NewReader(file.Data)); err != nil {
				errs[i] = fmt.Errorf("upload %q: %w", file.Name, err)
			}
			return nil
		})
	}
	g.Wait()
	if joined := errors.Join(errs...); joined != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to upload files", joined)
	}
	bs.log.Info("Uploaded files", "bucket_id", bucketID, "count", len(files))
	return nil
}

func (bs *bucketService) Download(ctx context.Context, principal *domain.User, bucketID uuid.UUID, fileName string) (io.ReadCloser, error) {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.SharedRead)
	if err != nil {
		return nil, err
	}
	reader, err := bs.store.GetObject(ctx, bucket.BucketName, fileName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, fmt.Sprintf("downloading file %q failed", fileName), err)
	}
	return reader, nil
}

// DownloadZip fetches every object concurrently, then writes the archive in
// sorted key order so identical bucket contents always produce an identical
// zip. A single failed object fails the whole archive, named in the error.
func (bs *bucketService) DownloadZip(ctx context.Context, principal *domain.User, bucketID uuid.UUID) ([]byte, error) {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.SharedRead)
	if err != nil {
		return nil, err
	}
	keys, err := bs.store.ListObjects(ctx, bucket.BucketName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list bucket objects", err)
	}
	sort.Strings(keys)

	bodies := make([][]byte, len(keys))
	var g errgroup.Group
	g.SetLimit(fanOutLimit)
	for i, key := range keys {
		g.Go(func() error {
			reader, err := bs.store.GetObject(ctx, bucket.BucketName, key)
			if err != nil {
				return fmt.Errorf("fetch object %q: %w", key, err)
			}
			defer reader.Close()
			body, err := io.ReadAll(reader)
			if err != nil {
				return fmt.Errorf("read object %q: %w", key, err)
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to bundle bucket contents", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, key := range keys {
		w, err := zw.Create(key)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindBackend, "failed to write zip entry", err)
		}
		if _, err := w.Write(bodies[i]); err != nil {
			return nil, apperr.Wrap(apperr.KindBackend, "failed to write zip entry", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to finalize zip", err)
	}
	return buf.Bytes(), nil
}

func (bs *bucketService) DeleteObject(ctx context.Context, principal *domain.User, bucketID uuid.UUID, fileName string) error {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict)
	if err != nil {
		return err
	}
	if err := bs.store.DeleteObject(ctx, bucket.BucketName, fileName); err != nil {
		return apperr.Wrap(apperr.KindBackend, fmt.Sprintf("deleting file %q failed", fileName), err)
	}
	return nil
}

func (bs *bucketService) ListObjectKeys(ctx context.Context, principal *domain.User, bucketID uuid.UUID) ([]string, error) {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.SharedRead)
	if err != nil {
		return nil, err
	}
	keys, err := bs.store.ListObjects(ctx, bucket.BucketName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list bucket objects", err)
	}
	return keys, nil
}

// Share grants read access to the user named by email. Sharing a bucket
// with its own owner is rejected; repeating an existing grant is a no-op.
func (bs *bucketService) Share(ctx context.Context, principal *domain.User, bucketID uuid.UUID, userEmail string) error {
	bucket, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict)
	if err != nil {
		return err
	}
	grantee, err := bs.userRepo.GetByEmail(ctx, nil, userEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no user found with the email provided")
		}
		return apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	if bucket.OwnerID != nil && grantee.ID == *bucket.OwnerID {
		return apperr.Validation("cannot share his own bucket to himself")
	}
	if err := bs.bucketRepo.Share(ctx, nil, bucketID, grantee.ID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to share bucket", err)
	}
	bs.log.Info("Shared bucket", "bucket_id", bucketID, "user_id", grantee.ID)
	return nil
}

// Unshare revokes a grant; revoking one that never existed succeeds quietly.
func (bs *bucketService) Unshare(ctx context.Context, principal *domain.User, bucketID, userID uuid.UUID) error {
	if _, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict); err != nil {
		return err
	}
	if _, err := bs.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("no user found with the id provided")
		}
		return apperr.Wrap(apperr.KindBackend, "failed to load user", err)
	}
	if err := bs.bucketRepo.Unshare(ctx, nil, bucketID, userID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to stop sharing bucket", err)
	}
	return nil
}

func (bs *bucketService) SharedUsers(ctx context.Context, principal *domain.User, bucketID uuid.UUID, skip, limit int) ([]*domain.User, error) {
	if _, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict); err != nil {
		return nil, err
	}
	users, err := bs.bucketRepo.ListSharedUsers(ctx, nil, bucketID, skip, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to list shared users", err)
	}
	return users, nil
}

func (bs *bucketService) CreateMetadata(ctx context.Context, principal *domain.User, bucketID uuid.UUID, in MetadataInput) (*domain.BucketMetadata, error) {
	if _, err := bs.resolveBucket(ctx, principal, bucketID, access.Strict); err != nil {
		return nil, err
	}
	if existing, err := bs.metadataRepo.GetByBucketID(ctx, nil, bucketID); err == nil && existing != nil {
		return nil, apperr.Conflict("the bucket already has metadata attached")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to check existing metadata", err)
	}
	metadata := &domain.BucketMetadata{
		Author:      in.Author,
		Description: in.Description,
		BucketID:    bucketID,
	}
	created, err := bs.metadataRepo.Create(ctx, nil, metadata)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to create bucket metadata", err)
	}
	return created, nil
}

func (bs *bucketService) GetMetadataByBucket(ctx context.Context, principal *domain.User, bucketID uuid.UUID) (*domain.BucketMetadata, error) {
	if _, err := bs.resolveBucket(ctx, principal, bucketID, access.SharedRead); err != nil {
		return nil, err
	}
	metadata, err := bs.metadataRepo.GetByBucketID(ctx, nil, bucketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no bucket metadata found for the bucket provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load bucket metadata", err)
	}
	return metadata, nil
}

// resolveMetadata routes the permission check through the owning bucket.
func (bs *bucketService) resolveMetadata(ctx context.Context, principal *domain.User, metadataID uuid.UUID, policy access.Policy) (*domain.BucketMetadata, error) {
	metadata, err := bs.metadataRepo.GetByID(ctx, nil, metadataID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no bucket metadata found with the id provided")
		}
		return nil, apperr.Wrap(apperr.KindBackend, "failed to load bucket metadata", err)
	}
	if _, err := bs.resolveBucket(ctx, principal, metadata.BucketID, policy); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (bs *bucketService) UpdateMetadata(ctx context.Context, principal *domain.User, metadataID uuid.UUID, in MetadataInput) (*domain.BucketMetadata, error) {
	if _, err := bs.resolveMetadata(ctx, principal, metadataID, access.Strict); err != nil {
		return nil, err
	}
	fields := map[string]any{"author": in.Author, "description": in.Description}
	if err := bs.metadataRepo.Update(ctx, nil, metadataID, fields); err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to update bucket metadata", err)
	}
	metadata, err := bs.metadataRepo.GetByID(ctx, nil, metadataID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBackend, "failed to reload bucket metadata", err)
	}
	return metadata, nil
}

func (bs *bucketService) DeleteMetadata(ctx context.Context, principal *domain.User, metadataID uuid.UUID) error {
	if _, err := bs.resolveMetadata(ctx, principal, metadataID, access.Strict); err != nil {
		return err
	}
	if err := bs.metadataRepo.Delete(ctx, nil, metadataID); err != nil {
		return apperr.Wrap(apperr.KindBackend, "failed to delete bucket metadata", err)
	}
	return nil
}
