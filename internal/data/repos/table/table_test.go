package table

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/data/repos/testutil"
	"github.com/yungbote/datahub-backend/internal/domain"
)

func seedUser(t *testing.T, tx *gorm.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, HashedPassword: "hashed", IsActive: true}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func TestTableRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewTableRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := seedUser(t, tx, "tablerepo-owner@example.com")

	created, err := repo.Create(ctx, tx, &domain.Table{
		Name:             "tablerepo_test",
		OriginalFileName: "TableRepo Test.csv",
		AddedBy:          owner.Email,
		NumOfRows:        3,
		OwnerID:          &owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byName, err := repo.GetByName(ctx, tx, "tablerepo_test")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("GetByName: unexpected result: %+v", byName)
	}

	exists, err := repo.NameExists(ctx, tx, "tablerepo_test")
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if !exists {
		t.Fatalf("NameExists: expected true")
	}
	exists, err = repo.NameExists(ctx, tx, "tablerepo_missing")
	if err != nil {
		t.Fatalf("NameExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("NameExists (missing): expected false")
	}

	owned, err := repo.ListByOwner(ctx, tx, owner.ID, 0, 100)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != created.ID {
		t.Fatalf("ListByOwner: unexpected result: %+v", owned)
	}

	if err := repo.Update(ctx, tx, created.ID, map[string]any{"data_type": "sales"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := repo.GetByID(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.DataType != "sales" {
		t.Fatalf("Update: data_type not persisted: %+v", updated)
	}

	if err := repo.Delete(ctx, tx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestTableRepoShareUnshare(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewTableRepo(db, testutil.Logger(t))
	ctx := context.Background()

	owner := seedUser(t, tx, "tableshare-owner@example.com")
	grantee := seedUser(t, tx, "tableshare-grantee@example.com")

	table, err := repo.Create(ctx, tx, &domain.Table{
		Name:    "tableshare_test",
		AddedBy: owner.Email,
		OwnerID: &owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Share(ctx, tx, table.ID, grantee.ID); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if err := repo.Share(ctx, tx, table.ID, grantee.ID); err != nil {
		t.Fatalf("Share (repeat): %v", err)
	}

	shared, err := repo.ListSharedWith(ctx, tx, grantee.ID, 0, 100)
	if err != nil {
		t.Fatalf("ListSharedWith: %v", err)
	}
	if len(shared) != 1 || shared[0].ID != table.ID {
		t.Fatalf("ListSharedWith: unexpected result: %+v", shared)
	}

	users, err := repo.ListSharedUsers(ctx, tx, table.ID, 0, 100)
	if err != nil {
		t.Fatalf("ListSharedUsers: %v", err)
	}
	if len(users) != 1 || users[0].ID != grantee.ID {
		t.Fatalf("ListSharedUsers: unexpected result: %+v", users)
	}

	if err := repo.Unshare(ctx, tx, table.ID, grantee.ID); err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	if err := repo.Unshare(ctx, tx, table.ID, grantee.ID); err != nil {
		t.Fatalf("Unshare (repeat): %v", err)
	}

	shared, err = repo.ListSharedWith(ctx, tx, grantee.ID, 0, 100)
	if err != nil {
		t.Fatalf("ListSharedWith after unshare: %v", err)
	}
	if len(shared) != 0 {
		t.Fatalf("ListSharedWith after unshare: expected none, got %+v", shared)
	}
}
