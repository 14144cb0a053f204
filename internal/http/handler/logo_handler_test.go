package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
	servicegomock "github.com/lcolonia21/BizGuide-Final-System/internal/service/gomock"
)

func multipartLogo(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "logo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestLogoHandlerUploadStreamsFileToService(t *testing.T) {
	payload := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockLogoServiceInterface(ctrl)
	svc.EXPECT().Upload(gomock.Any(), gomock.Any(), uint(3), gomock.Any(), int64(len(payload))).
		DoAndReturn(func(_ context.Context, actor *domain.User, id uint, file io.Reader, _ int64) (*service.LogoResult, error) {
			got, err := io.ReadAll(file)
			if err != nil || !bytes.Equal(got, payload) {
				t.Fatalf("unexpected upload body err=%v", err)
			}
			if actor.ID != 1 {
				t.Fatalf("expected actor 1, got %d", actor.ID)
			}
			return &service.LogoResult{BusinessID: id, URL: "http://minio/logo", ExpiresAt: time.Now().Add(time.Minute)}, nil
		})

	body, contentType := multipartLogo(t, "file", payload)
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3/logo", body), 1)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	NewLogoHandler(svc, 1<<20).Upload(rr, withURLParam(req, "id", "3"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLogoHandlerUploadFailures(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockLogoServiceInterface(ctrl)

		body, contentType := multipartLogo(t, "image", []byte("x"))
		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3/logo", body), 1)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		NewLogoHandler(svc, 1<<20).Upload(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("body over limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockLogoServiceInterface(ctrl)

		body, contentType := multipartLogo(t, "file", bytes.Repeat([]byte{1}, 200<<10))
		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3/logo", body), 1)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		NewLogoHandler(svc, 1024).Upload(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", rr.Code)
		}
	})

	t.Run("non owner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := servicegomock.NewMockLogoServiceInterface(ctrl)
		svc.EXPECT().Upload(gomock.Any(), gomock.Any(), uint(3), gomock.Any(), gomock.Any()).Return(nil, service.ErrForbidden)

		body, contentType := multipartLogo(t, "file", []byte("\x89PNG\r\n\x1a\n"))
		req := withUser(httptest.NewRequest(http.MethodPut, "/api/v1/businesses/3/logo", body), 2)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		NewLogoHandler(svc, 1<<20).Upload(rr, withURLParam(req, "id", "3"))

		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})
}

func TestLogoHandlerGetAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := servicegomock.NewMockLogoServiceInterface(ctrl)
	svc.EXPECT().URL(gomock.Any(), uint(3)).Return(nil, service.ErrLogoNotFound)
	svc.EXPECT().Delete(gomock.Any(), gomock.Any(), uint(3)).Return(service.ErrLogoStorageDisabled)
	h := NewLogoHandler(svc, 1<<20)

	rr := httptest.NewRecorder()
	h.Get(rr, withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/businesses/3/logo", nil), "id", "3"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, withURLParam(withUser(httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/3/logo", nil), 1), "id", "3"))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
