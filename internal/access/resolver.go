package access

import (
	"github.com/google/uuid"

	"github.com/yungbote/datahub-backend/internal/domain"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
)

// Policy names the capability a request demands of its principal.
type Policy int

const (
	// Strict allows only the resource owner or a superuser. Used for every
	// mutating path: create/update/delete, share management, upload, empty,
	// drop.
	Strict Policy = iota
	// SharedRead additionally allows principals holding a shared grant on
	// the resource. Used for read/download/metadata-view/query paths.
	SharedRead
)

// Tier is the capability level under which a request was allowed.
type Tier int

const (
	TierNone Tier = iota
	TierOwner
	TierSuperuser
	TierShared
)

func (t Tier) String() string {
	switch t {
	case TierOwner:
		return "owner"
	case TierSuperuser:
		return "superuser"
	case TierShared:
		return "shared"
	default:
		return "none"
	}
}

// Resource is the registry-row view the resolver needs: its identity and
// its (possibly absent) owner. Both Bucket and Table satisfy it.
type Resource interface {
	ResourceID() uuid.UUID
	ResourceOwnerID() *uuid.UUID
}

// Principal is the acting user plus the arena-style id set of resources
// shared with it, loaded for the resource kind under evaluation. The
// resolver itself never touches storage, so grant revocation is visible on
// the very next call.
type Principal struct {
	ID          uuid.UUID
	IsSuperuser bool
	SharedIDs   map[uuid.UUID]struct{}
}

// NewPrincipal builds a Principal from a user row and the shared id set for
// one resource kind (bucket grants and table grants are evaluated
// independently; pass the set matching the resource).
func NewPrincipal(user *domain.User, sharedIDs []uuid.UUID) Principal {
	p := Principal{SharedIDs: make(map[uuid.UUID]struct{}, len(sharedIDs))}
	if user != nil {
		p.ID = user.ID
		p.IsSuperuser = user.IsSuperuser
	}
	for _, id := range sharedIDs {
		p.SharedIDs[id] = struct{}{}
	}
	return p
}

// Resolve decides whether principal may act on resource under policy.
// It returns the tier that allowed the call, or apperr.Forbidden. Resource
// existence is the caller's concern: a missing resource must surface as
// NotFound before resolution, never as a permission failure.
func Resolve(principal Principal, resource Resource, policy Policy) (Tier, error) {
	if resource == nil {
		return TierNone, apperr.NotFound("no resource provided")
	}

	// Superuser bypasses all other checks unconditionally.
	if principal.IsSuperuser {
		return TierSuperuser, nil
	}

	if ownerID := resource.ResourceOwnerID(); ownerID != nil && *ownerID == principal.ID {
		return TierOwner, nil
	}

	if policy == SharedRead {
		if _, ok := principal.SharedIDs[resource.ResourceID()]; ok {
			return TierShared, nil
		}
	}

	return TierNone, apperr.Forbidden("not enough permissions")
}
