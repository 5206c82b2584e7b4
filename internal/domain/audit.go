package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord logs a mutation event on a domain entity. ActorID is nil
// for changes made by the scheduler rather than a person.
type AuditRecord struct {
	ID         uuid.UUID
	ActorID    *uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
