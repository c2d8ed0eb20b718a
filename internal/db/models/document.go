// Package models contains database model definitions.
package models

import "time"

// Document is a credential file submitted for review.
// The file content lives in external blob storage; BlobRef is the opaque
// reference handed out by that storage.
type Document struct {
	ID uint64 `gorm:"primaryKey"`
	// AccountID is the owning account.
	AccountID uint64 `gorm:"index;not null"`
	// Name is the display name of the document.
	Name string `gorm:"size:255;not null"`
	// BlobRef is the opaque blob storage reference.
	BlobRef string `gorm:"size:255;not null"`
	// CreatedAt is the submission timestamp (managed by GORM).
	CreatedAt time.Time
}
