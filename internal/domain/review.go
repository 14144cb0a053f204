package domain

import "time"

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"size:4000" json:"comment"`
	UserID     uint      `gorm:"not null;index:idx_reviews_user" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessID uint      `gorm:"not null;index:idx_reviews_business" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ValidRating(rating int) bool {
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
