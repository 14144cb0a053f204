package service

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	repogomock "github.com/lcolonia21/BizGuide-Final-System/internal/repository/gomock"
)

func newServiceDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Business{}, &domain.Review{}, &domain.IdempotencyRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type repoFixture struct {
	db            *gorm.DB
	users         *repogomock.MockUserRepository
	businesses    *repogomock.MockBusinessRepository
	reviews       *repogomock.MockReviewRepository
	userStore     repository.UserRepository
	businessStore repository.BusinessRepository
	reviewStore   repository.ReviewRepository
}

// newRepoFixture returns repository mocks that delegate to real sqlite
// repositories.
func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	db := newServiceDBForTest(t)
	ctrl := gomock.NewController(t)
	fx := &repoFixture{
		db:            db,
		users:         repogomock.NewMockUserRepository(ctrl),
		businesses:    repogomock.NewMockBusinessRepository(ctrl),
		reviews:       repogomock.NewMockReviewRepository(ctrl),
		userStore:     repository.NewUserRepository(db),
		businessStore: repository.NewBusinessRepository(db),
		reviewStore:   repository.NewReviewRepository(db),
	}

	fx.users.EXPECT().FindByID(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.userStore.FindByID)
	fx.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.userStore.FindByEmail)
	fx.users.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.userStore.Create)

	fx.businesses.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.businessStore.Create)
	fx.businesses.EXPECT().FindByID(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.businessStore.FindByID)
	fx.businesses.EXPECT().ListPaged(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.businessStore.ListPaged)
	fx.businesses.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.businessStore.Update)
	fx.businesses.EXPECT().DeleteByID(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.businessStore.DeleteByID)

	fx.reviews.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.Create)
	fx.reviews.EXPECT().FindByID(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.FindByID)
	fx.reviews.EXPECT().ListByBusiness(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.ListByBusiness)
	fx.reviews.EXPECT().ListByUser(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.ListByUser)
	fx.reviews.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.Update)
	fx.reviews.EXPECT().DeleteByID(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.DeleteByID)
	fx.reviews.EXPECT().RatingSummary(gomock.Any(), gomock.Any()).AnyTimes().DoAndReturn(fx.reviewStore.RatingSummary)
	return fx
}

func (fx *repoFixture) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, PasswordHash: "unused", FullName: email, IsActive: true}
	if err := fx.userStore.Create(t.Context(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func (fx *repoFixture) seedBusiness(t *testing.T, owner *domain.User, name string) *domain.Business {
	t.Helper()
	b := &domain.Business{Name: name, Category: "cafe", OwnerID: owner.ID}
	if err := fx.businessStore.Create(t.Context(), b); err != nil {
		t.Fatalf("seed business %s: %v", name, err)
	}
	return b
}
