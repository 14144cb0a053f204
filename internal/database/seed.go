package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/security"

	"gorm.io/gorm"
)

type SeedUser struct {
	Email    string
	Password string
	FullName string
}

type SeedBusiness struct {
	OwnerEmail  string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Website     string
	Category    string
}

type SeedReview struct {
	AuthorEmail  string
	BusinessName string
	Rating       int
	Comment      string
}

type SeedData struct {
	Users      []SeedUser
	Businesses []SeedBusiness
	Reviews    []SeedReview
}

type SeedReport struct {
	CreatedUsers      int  `json:"created_users"`
	CreatedBusinesses int  `json:"created_businesses"`
	CreatedReviews    int  `json:"created_reviews"`
	Noop              bool `json:"noop"`
}

// DemoSeedData is the fixture set loaded by the seed tool.
func DemoSeedData() SeedData {
	return SeedData{
		Users: []SeedUser{
			{Email: "alice@example.com", Password: "Demo#Pass1234", FullName: "Alice Owner"},
			{Email: "bob@example.com", Password: "Demo#Pass1234", FullName: "Bob Reviewer"},
		},
		Businesses: []SeedBusiness{
			{
				OwnerEmail:  "alice@example.com",
				Name:        "Corner Coffee",
				Description: "Espresso bar and bakery",
				Address:     "12 Main St",
				Phone:       "555-0100",
				Email:       "hello@cornercoffee.example",
				Website:     "https://cornercoffee.example",
				Category:    "cafe",
			},
			{
				OwnerEmail:  "alice@example.com",
				Name:        "Fix-It Hardware",
				Description: "Tools and home repair supplies",
				Address:     "48 Oak Ave",
				Phone:       "555-0101",
				Email:       "shop@fixit.example",
				Category:    "retail",
			},
		},
		Reviews: []SeedReview{
			{AuthorEmail: "bob@example.com", BusinessName: "Corner Coffee", Rating: 5, Comment: "Best flat white in town"},
			{AuthorEmail: "bob@example.com", BusinessName: "Fix-It Hardware", Rating: 4, Comment: "Helpful staff"},
		},
	}
}

// Seed inserts data that is not already present. Users are matched by
// email, businesses by (owner, name) and reviews by (author, business).
func Seed(db *gorm.DB, data SeedData) (*SeedReport, error) {
	start := time.Now()
	ctx := context.Background()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "seed", time.Since(start))
	}()

	report := &SeedReport{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := make(map[string]uint, len(data.Users))
		for _, su := range data.Users {
			email := strings.TrimSpace(su.Email)
			var u domain.User
			err := tx.Where("email = ?", email).First(&u).Error
			if err == nil {
				users[email] = u.ID
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hash, err := security.HashPassword(su.Password)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			u = domain.User{Email: email, PasswordHash: hash, FullName: su.FullName, IsActive: true}
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			users[email] = u.ID
			report.CreatedUsers++
		}

		businesses := make(map[string]uint, len(data.Businesses))
		for _, sb := range data.Businesses {
			ownerID, ok := users[sb.OwnerEmail]
			if !ok {
				return fmt.Errorf("seed business %q references unknown owner %q", sb.Name, sb.OwnerEmail)
			}
			b := domain.Business{
				Name:        sb.Name,
				Description: sb.Description,
				Address:     sb.Address,
				Phone:       sb.Phone,
				Email:       sb.Email,
				Category:    sb.Category,
				OwnerID:     ownerID,
			}
			if sb.Website != "" {
				website := sb.Website
				b.Website = &website
			}
			res := tx.Where("owner_id = ? AND name = ?", ownerID, sb.Name).FirstOrCreate(&b)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				report.CreatedBusinesses++
			}
			businesses[sb.Name] = b.ID
		}

		for _, sr := range data.Reviews {
			authorID, ok := users[sr.AuthorEmail]
			if !ok {
				return fmt.Errorf("seed review references unknown author %q", sr.AuthorEmail)
			}
			businessID, ok := businesses[sr.BusinessName]
			if !ok {
				return fmt.Errorf("seed review references unknown business %q", sr.BusinessName)
			}
			if !domain.ValidRating(sr.Rating) {
				return fmt.Errorf("seed review rating %d out of range", sr.Rating)
			}
			r := domain.Review{Rating: sr.Rating, Comment: sr.Comment, UserID: authorID, BusinessID: businessID}
			res := tx.Where("user_id = ? AND business_id = ?", authorID, businessID).FirstOrCreate(&r)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				report.CreatedReviews++
			}
		}
		return nil
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}

	report.Noop = report.CreatedUsers == 0 && report.CreatedBusinesses == 0 && report.CreatedReviews == 0
	observability.RecordDatabaseStartupEvent(ctx, "seed", "success")
	return report, nil
}
