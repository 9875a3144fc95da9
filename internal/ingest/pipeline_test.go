package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	tablerepo "github.com/yungbote/datahub-backend/internal/data/repos/table"
	"github.com/yungbote/datahub-backend/internal/data/repos/testutil"
	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

func TestPipelineRun(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)

	tableRepo := tablerepo.NewTableRepo(db, log)
	pipeline := NewPipeline(db, log, tableRepo)
	ctx := context.Background()

	owner := &domain.User{
		Email:          fmt.Sprintf("pipeline-%s@example.com", uuid.NewString()[:8]),
		HashedPassword: "hashed",
		IsActive:       true,
	}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	t.Cleanup(func() { db.Delete(owner) })

	fileName := fmt.Sprintf("Pipeline Run %s.csv", uuid.NewString()[:8])
	data := []byte("Region,Total Sales,Active\nnorth,100,true\nsouth,250,false\n")

	created, err := pipeline.Run(ctx, owner, fileName, data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	t.Cleanup(func() {
		_ = tableRepo.Delete(ctx, nil, created.ID)
		_ = pipeline.DropPhysical(ctx, created.Name)
	})

	if created.NumOfRows != 2 {
		t.Fatalf("expected 2 rows, got %d", created.NumOfRows)
	}
	if created.AddedBy != owner.Email {
		t.Fatalf("added_by: expected %q, got %q", owner.Email, created.AddedBy)
	}
	if created.OriginalFileName != fileName {
		t.Fatalf("original_file_name: expected %q, got %q", fileName, created.OriginalFileName)
	}

	var count int64
	if err := db.Raw(fmt.Sprintf(`SELECT count(*) FROM %q`, created.Name)).Scan(&count).Error; err != nil {
		t.Fatalf("count physical rows: %v", err)
	}
	if count != 2 {
		t.Fatalf("physical table: expected 2 rows, got %d", count)
	}

	var maxID int64
	if err := db.Raw(fmt.Sprintf(`SELECT max("id") FROM %q`, created.Name)).Scan(&maxID).Error; err != nil {
		t.Fatalf("max id: %v", err)
	}
	if maxID != 2 {
		t.Fatalf("surrogate ids should be 1..N, max was %d", maxID)
	}

	// Re-ingesting the same file must conflict and leave the table intact.
	_, err = pipeline.Run(ctx, owner, fileName, data)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on duplicate ingest, got %v", err)
	}
}

func TestPipelineRunRejectsNumericName(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)

	pipeline := NewPipeline(db, log, tablerepo.NewTableRepo(db, log))

	owner := &domain.User{Email: "numeric@example.com", HashedPassword: "hashed", IsActive: true}
	_, err := pipeline.Run(context.Background(), owner, "12345.csv", []byte("a\n1\n"))
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
