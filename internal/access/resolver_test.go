package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

func newBucket(owner *uuid.UUID) *domain.Bucket {
	return &domain.Bucket{ID: uuid.New(), BucketName: "b", OwnerID: owner}
}

func TestResolveStrict(t *testing.T) {
	ownerID := uuid.New()
	bucket := newBucket(&ownerID)

	owner := NewPrincipal(&domain.User{ID: ownerID}, nil)
	super := NewPrincipal(&domain.User{ID: uuid.New(), IsSuperuser: true}, nil)
	stranger := NewPrincipal(&domain.User{ID: uuid.New()}, nil)
	grantee := NewPrincipal(&domain.User{ID: uuid.New()}, []uuid.UUID{bucket.ID})

	tier, err := Resolve(owner, bucket, Strict)
	if err != nil || tier != TierOwner {
		t.Fatalf("owner under strict: expected TierOwner, got (%v, %v)", tier, err)
	}

	tier, err = Resolve(super, bucket, Strict)
	if err != nil || tier != TierSuperuser {
		t.Fatalf("superuser under strict: expected TierSuperuser, got (%v, %v)", tier, err)
	}

	if _, err := Resolve(stranger, bucket, Strict); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("stranger under strict: expected forbidden, got %v", err)
	}

	// A shared grant confers read only, never the strict tier.
	if _, err := Resolve(grantee, bucket, Strict); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("grantee under strict: expected forbidden, got %v", err)
	}
}

func TestResolveSharedRead(t *testing.T) {
	ownerID := uuid.New()
	bucket := newBucket(&ownerID)
	other := newBucket(&ownerID)

	grantee := NewPrincipal(&domain.User{ID: uuid.New()}, []uuid.UUID{bucket.ID})

	tier, err := Resolve(grantee, bucket, SharedRead)
	if err != nil || tier != TierShared {
		t.Fatalf("grantee under shared-read: expected TierShared, got (%v, %v)", tier, err)
	}

	// Grants are per resource, not per kind.
	if _, err := Resolve(grantee, other, SharedRead); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("grantee on unshared resource: expected forbidden, got %v", err)
	}
}

func TestResolveRevokedGrant(t *testing.T) {
	ownerID := uuid.New()
	bucket := newBucket(&ownerID)
	userID := uuid.New()

	granted := NewPrincipal(&domain.User{ID: userID}, []uuid.UUID{bucket.ID})
	if _, err := Resolve(granted, bucket, SharedRead); err != nil {
		t.Fatalf("granted principal: expected allow, got %v", err)
	}

	// The resolver holds no state between calls: rebuilding the principal
	// without the grant denies immediately.
	revoked := NewPrincipal(&domain.User{ID: userID}, nil)
	if _, err := Resolve(revoked, bucket, SharedRead); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("revoked principal: expected forbidden, got %v", err)
	}
}

func TestResolveOrphanedResource(t *testing.T) {
	// Owner deletion nulls owner_id; the row survives with no owner tier.
	bucket := newBucket(nil)

	stranger := NewPrincipal(&domain.User{ID: uuid.New()}, nil)
	if _, err := Resolve(stranger, bucket, Strict); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("orphaned resource under strict: expected forbidden, got %v", err)
	}

	super := NewPrincipal(&domain.User{ID: uuid.New(), IsSuperuser: true}, nil)
	if tier, err := Resolve(super, bucket, Strict); err != nil || tier != TierSuperuser {
		t.Fatalf("orphaned resource for superuser: expected allow, got (%v, %v)", tier, err)
	}
}

func TestForbiddenIsNotNotFound(t *testing.T) {
	ownerID := uuid.New()
	bucket := newBucket(&ownerID)

	stranger := NewPrincipal(&domain.User{ID: uuid.New()}, nil)
	_, err := Resolve(stranger, bucket, Strict)
	if err == nil {
		t.Fatal("expected deny")
	}
	if errors.Is(err, apperr.NotFound("")) {
		t.Fatal("permission denial must never read as not-found")
	}
}
