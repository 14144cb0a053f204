package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

const (
	logoFormField = "file"
	// multipart framing on top of the file itself
	logoFormOverhead = 64 << 10
)

type LogoHandler struct {
	logoSvc  service.LogoServiceInterface
	maxBytes int64
}

func NewLogoHandler(logoSvc service.LogoServiceInterface, maxBytes int64) *LogoHandler {
	return &LogoHandler{logoSvc: logoSvc, maxBytes: maxBytes}
}

func (h *LogoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+logoFormOverhead)
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeServiceError(w, r, service.ErrLogoTooLarge)
			return
		}
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "expected multipart form", nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()
	file, header, err := r.FormFile(logoFormField)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing file field", nil)
		return
	}
	defer file.Close()

	res, err := h.logoSvc.Upload(r.Context(), user, id, file, header.Size)
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "business.logo.upload", ActorUserID: idString(user.ID), TargetType: "business", TargetID: idString(id),
		Action: "upload_logo", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

func (h *LogoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	res, err := h.logoSvc.URL(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}

func (h *LogoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	err = h.logoSvc.Delete(r.Context(), user, id)
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "business.logo.delete", ActorUserID: idString(user.ID), TargetType: "business", TargetID: idString(id),
		Action: "delete_logo", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
