package models

import "time"

// AuditFields holds bookkeeping columns shared by every stored row.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
