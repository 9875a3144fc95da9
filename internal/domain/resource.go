package domain

import "github.com/google/uuid"

// Bucket and Table both act as access-controlled resources: an identity
// plus a nullable owner. Sharing never moves ownership.

func (b *Bucket) ResourceID() uuid.UUID { return b.ID }

func (b *Bucket) ResourceOwnerID() *uuid.UUID { return b.OwnerID }

func (t *Table) ResourceID() uuid.UUID { return t.ID }

func (t *Table) ResourceOwnerID() *uuid.UUID { return t.OwnerID }
