package domain

import "time"

type IdempotencyRecord struct {
	ID                 uint      `gorm:"primaryKey"`
	Scope              string    `gorm:"size:120;not null;uniqueIndex:idx_idempotency_scope_key"`
	IdempotencyKey     string    `gorm:"size:192;not null;uniqueIndex:idx_idempotency_scope_key"`
	RequestFingerprint string    `gorm:"size:128;not null"`
	State              string    `gorm:"size:32;not null"`
	ResponseStatus     int       `gorm:"not null;default:0"`
	ResponseBody       []byte
	ResponseCType      string    `gorm:"column:response_content_type;size:255"`
	ExpiresAt          time.Time `gorm:"not null;index:idx_idempotency_expires_at"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
