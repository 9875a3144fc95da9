package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

// stubTableRepo serves fixed registry rows and records grant calls.
type stubTableRepo struct {
	tables   []*domain.Table
	shared   []uuid.UUID
	unshared []uuid.UUID
}

func (s *stubTableRepo) Create(ctx context.Context, tx *gorm.DB, table *domain.Table) (*domain.Table, error) {
	s.tables = append(s.tables, table)
	return table, nil
}

func (s *stubTableRepo) GetByID(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) (*domain.Table, error) {
	for _, t := range s.tables {
		if t.ID == tableID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTableRepo) GetByName(ctx context.Context, tx *gorm.DB, tableName string) (*domain.Table, error) {
	for _, t := range s.tables {
		if t.Name == tableName {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTableRepo) NameExists(ctx context.Context, tx *gorm.DB, tableName string) (bool, error) {
	_, err := s.GetByName(ctx, tx, tableName)
	return err == nil, nil
}

func (s *stubTableRepo) List(ctx context.Context, tx *gorm.DB, skip, limit int) ([]*domain.Table, error) {
	return s.tables, nil
}

func (s *stubTableRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, skip, limit int) ([]*domain.Table, error) {
	return nil, nil
}

func (s *stubTableRepo) ListSharedWith(ctx context.Context, tx *gorm.DB, userID uuid.UUID, skip, limit int) ([]*domain.Table, error) {
	return nil, nil
}

func (s *stubTableRepo) Update(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, fields map[string]any) error {
	return nil
}

func (s *stubTableRepo) Delete(ctx context.Context, tx *gorm.DB, tableID uuid.UUID) error {
	return nil
}

func (s *stubTableRepo) Share(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error {
	s.shared = append(s.shared, userID)
	return nil
}

func (s *stubTableRepo) Unshare(ctx context.Context, tx *gorm.DB, tableID, userID uuid.UUID) error {
	s.unshared = append(s.unshared, userID)
	return nil
}

func (s *stubTableRepo) ListSharedUsers(ctx context.Context, tx *gorm.DB, tableID uuid.UUID, skip, limit int) ([]*domain.User, error) {
	return nil, nil
}

func newShareFixture(t *testing.T) (TableService, *stubTableRepo, *domain.User, *domain.User, *domain.Table) {
	t.Helper()
	owner := &domain.User{ID: uuid.New(), Email: "table-owner@example.com", IsActive: true}
	grantee := &domain.User{ID: uuid.New(), Email: "table-grantee@example.com", IsActive: true}
	table := &domain.Table{ID: uuid.New(), Name: "share_fixture", OwnerID: &owner.ID}

	userRepo := &stubUserRepo{users: []*domain.User{owner, grantee}}
	tableRepo := &stubTableRepo{tables: []*domain.Table{table}}
	svc := NewTableService(testLogger(t), tableRepo, userRepo, nil, nil)
	return svc, tableRepo, owner, grantee, table
}

func TestTableShareWithOwnerRejected(t *testing.T) {
	svc, tableRepo, owner, _, table := newShareFixture(t)

	err := svc.Share(context.Background(), owner, table.ID, owner.Email)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for owner-as-grantee, got %v", err)
	}
	if len(tableRepo.shared) != 0 {
		t.Fatalf("no grant should be written, got %v", tableRepo.shared)
	}
}

func TestTableShareGrants(t *testing.T) {
	svc, tableRepo, owner, grantee, table := newShareFixture(t)

	if err := svc.Share(context.Background(), owner, table.ID, grantee.Email); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if len(tableRepo.shared) != 1 || tableRepo.shared[0] != grantee.ID {
		t.Fatalf("expected grant for %s, got %v", grantee.ID, tableRepo.shared)
	}
}

func TestTableShareUnknownEmail(t *testing.T) {
	svc, _, owner, _, table := newShareFixture(t)

	err := svc.Share(context.Background(), owner, table.ID, "nobody@example.com")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestTableShareByNonOwnerForbidden(t *testing.T) {
	svc, tableRepo, _, grantee, table := newShareFixture(t)

	err := svc.Share(context.Background(), grantee, table.ID, grantee.Email)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(tableRepo.shared) != 0 {
		t.Fatalf("no grant should be written, got %v", tableRepo.shared)
	}
}

func TestTableUnshareWithoutGrantSucceeds(t *testing.T) {
	svc, tableRepo, owner, grantee, table := newShareFixture(t)

	if err := svc.Unshare(context.Background(), owner, table.ID, grantee.ID); err != nil {
		t.Fatalf("Unshare: %v", err)
	}
	if len(tableRepo.unshared) != 1 || tableRepo.unshared[0] != grantee.ID {
		t.Fatalf("expected revoke for %s, got %v", grantee.ID, tableRepo.unshared)
	}
}
