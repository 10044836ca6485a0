package entity

import (
	"context"
	"time"
)


type Lead struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Source    *string   `json:"source,omitempty" db:"source"`
	Campaign  *string   `json:"campaign,omitempty" db:"campaign"`
	UserAgent *string   `json:"ua,omitempty" db:"ua"`
	IP        *string   `json:"ip,omitempty" db:"ip"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LeadRepositoryInterface persists leads keyed by their normalized email.
// Upsert must be atomic: two concurrent calls for the same new email produce one row.
type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
}
