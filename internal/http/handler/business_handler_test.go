package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/repository"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
	servicegomock "github.com/lcolonia21/BizGuide-Final-System/internal/service/gomock"
)

func TestBusinessHandlerCreateUsesCallerAsOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
	svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, owner *domain.User, in service.CreateBusinessInput) (*domain.Business, error) {
			if owner == nil || owner.ID != 1 {
				t.Fatalf("expected owner 1, got %+v", owner)
			}
			if in.Name != "Cafe" || in.Category != "food" {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.Business{ID: 10, Name: in.Name, Category: in.Category, OwnerID: owner.ID}, nil
		})

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/businesses", strings.NewReader(`{"name":"Cafe","category":"food"}`)), 1)
	rr := httptest.NewRecorder()
	NewBusinessHandler(svc).Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var business domain.Business
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &business); err != nil {
		t.Fatalf("decode business: %v", err)
	}
	if business.ID != 10 || business.OwnerID != 1 {
		t.Fatalf("unexpected business %+v", business)
	}
}

func TestBusinessHandlerCreateRejectsOwnerInPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockBusinessServiceInterface(ctrl)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/businesses", strings.NewReader(`{"name":"Cafe","category":"food","owner_id":2}`)), 1)
	rr := httptest.NewRecorder()
	NewBusinessHandler(svc).Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestBusinessHandlerListPassesCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
	svc.EXPECT().List(gomock.Any(), service.BusinessListQuery{
		Category: "cafe",
		Page:     repository.PageRequest{Page: repository.DefaultPage, PageSize: repository.DefaultPageSize},
	}).Return(repository.PageResult[domain.Business]{Page: 1, PageSize: 20}, nil)

	rr := httptest.NewRecorder()
	NewBusinessHandler(svc).List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/businesses?category=cafe", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var data map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &data); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if items, ok := data["items"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty items array, got %v", data["items"])
	}
}

func TestBusinessHandlerGetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
	svc.EXPECT().GetByID(gomock.Any(), uint(404)).Return(nil, service.ErrBusinessNotFound)
	h := NewBusinessHandler(svc)

	rr := httptest.NewRecorder()
	h.GetByID(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/404", nil), "id", "404"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.GetByID(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/abc", nil), "id", "abc"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rr.Code)
	}
}

func TestBusinessHandlerUpdate(t *testing.T) {
	t.Run("owner applies partial update", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
		svc.EXPECT().Update(gomock.Any(), gomock.Any(), uint(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, actor *domain.User, _ uint, in service.UpdateBusinessInput) (*domain.Business, error) {
				if in.Name == nil || *in.Name != "New" || in.Category != nil {
					t.Fatalf("unexpected partial update %+v", in)
				}
				return &domain.Business{ID: 3, Name: *in.Name, OwnerID: actor.ID}, nil
			})

		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3", strings.NewReader(`{"name":"New"}`)), 1)
		rr := httptest.NewRecorder()
		NewBusinessHandler(svc).Update(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
		}
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
		svc.EXPECT().Update(gomock.Any(), gomock.Any(), uint(3), gomock.Any()).Return(nil, service.ErrForbidden)

		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3", strings.NewReader(`{"name":"Hijack"}`)), 2)
		rr := httptest.NewRecorder()
		NewBusinessHandler(svc).Update(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
		if env := decodeEnvelope(t, rr); env.Error == nil || env.Error.Message != "not enough permissions" {
			t.Fatalf("unexpected error %+v", env.Error)
		}
	})

	t.Run("owner_id in payload is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockBusinessServiceInterface(ctrl)

		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3", strings.NewReader(`{"owner_id":2}`)), 1)
		rr := httptest.NewRecorder()
		NewBusinessHandler(svc).Update(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockBusinessServiceInterface(ctrl)

		req := httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3", strings.NewReader(`{"name":"x"}`))
		rr := httptest.NewRecorder()
		NewBusinessHandler(svc).Update(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})
}

func TestBusinessHandlerDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockBusinessServiceInterface(ctrl)
	svc.EXPECT().Delete(gomock.Any(), gomock.Any(), uint(3)).Return(nil)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/3", nil), 1)
	rr := httptest.NewRecorder()
	NewBusinessHandler(svc).Delete(rr, withURLParam(req, "id", "3"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var data map[string]bool
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &data); err != nil || !data["deleted"] {
		t.Fatalf("expected deleted=true, got %v err=%v", data, err)
	}
}
