// Package models holds the persistent domain types.
package models

import "time"

// Model is the shared base for all persisted types. Rows are hard-deleted;
// soft-delete tombstones would sit behind unique indexes (user email, the
// cart's user+product pair) and block re-inserts.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
