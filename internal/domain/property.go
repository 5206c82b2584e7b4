package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property is a managed site that receives generated checklists.
type Property struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	ManagerID *uuid.UUID
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
