package user

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/data/repos/testutil"
	"github.com/yungbote/datahub-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, &domain.User{
		Email:          "userrepo@example.com",
		Organization:   "acme",
		HashedPassword: "hashed",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	gotByID, err := repo.GetByID(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if gotByID.Email != created.Email {
		t.Fatalf("GetByID: unexpected result: %+v", gotByID)
	}

	gotByEmail, err := repo.GetByEmail(ctx, tx, created.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if gotByEmail.ID != created.ID {
		t.Fatalf("GetByEmail: unexpected result: %+v", gotByEmail)
	}

	exists, err := repo.EmailExists(ctx, tx, created.Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}
	exists, err = repo.EmailExists(ctx, tx, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	if err := repo.Update(ctx, tx, created.ID, map[string]any{"organization": "globex"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if updated.Organization != "globex" {
		t.Fatalf("Update: organization not persisted: %+v", updated)
	}

	users, err := repo.List(ctx, tx, 0, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, u := range users {
		if u.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("List: created user missing from result")
	}
}

func TestUserRepoGetMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))

	_, err := repo.GetByEmail(context.Background(), tx, "nobody@example.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestUserRepoSharedIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner, err := repo.Create(ctx, tx, &domain.User{
		Email:          "sharedids-owner@example.com",
		HashedPassword: "hashed",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("Create owner: %v", err)
	}
	grantee, err := repo.Create(ctx, tx, &domain.User{
		Email:          "sharedids-grantee@example.com",
		HashedPassword: "hashed",
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("Create grantee: %v", err)
	}

	bucket := &domain.Bucket{BucketName: "sharedids-bucket", OwnerID: &owner.ID}
	if err := tx.Create(bucket).Error; err != nil {
		t.Fatalf("create bucket row: %v", err)
	}
	if err := tx.Exec(`INSERT INTO user_bucket_relation (user_id, bucket_id) VALUES (?, ?)`,
		grantee.ID, bucket.ID).Error; err != nil {
		t.Fatalf("insert grant: %v", err)
	}

	ids, err := repo.SharedBucketIDs(ctx, tx, grantee.ID)
	if err != nil {
		t.Fatalf("SharedBucketIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != bucket.ID {
		t.Fatalf("SharedBucketIDs: unexpected result: %v", ids)
	}

	tableIDs, err := repo.SharedTableIDs(ctx, tx, grantee.ID)
	if err != nil {
		t.Fatalf("SharedTableIDs: %v", err)
	}
	if len(tableIDs) != 0 {
		t.Fatalf("SharedTableIDs: expected none, got %v", tableIDs)
	}
}
