package domain

import "time"

// Business is a listing owned by exactly one user. OwnerID never changes
// after creation.
type Business struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:200;not null;index" json:"name"`
	Description   string    `gorm:"size:2000" json:"description"`
	Address       string    `gorm:"size:500" json:"address"`
	Phone         string    `gorm:"size:64" json:"phone"`
	Email         string    `gorm:"size:255" json:"email"`
	Website       *string   `gorm:"size:1024" json:"website,omitempty"`
	Category      string    `gorm:"size:120;not null;index:idx_businesses_category" json:"category"`
	LogoObjectKey *string   `gorm:"size:512" json:"-"`
	OwnerID       uint      `gorm:"not null;index:idx_businesses_owner" json:"owner_id"`
	Owner         *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
