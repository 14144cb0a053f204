package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

type BusinessHandler struct {
	businessSvc service.BusinessServiceInterface
}

func NewBusinessHandler(businessSvc service.BusinessServiceInterface) *BusinessHandler {
	return &BusinessHandler{businessSvc: businessSvc}
}

type createBusinessRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Website     *string `json:"website"`
	Category    string  `json:"category"`
}

type updateBusinessRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Website     *string `json:"website"`
	Category    *string `json:"category"`
}

func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	var req createBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	business, err := h.businessSvc.Create(r.Context(), user, service.CreateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Category:    req.Category,
	})
	outcome, reason := auditOutcome(err)
	in := observability.AuditInput{
		EventName: "business.create", ActorUserID: idString(user.ID), TargetType: "business",
		Action: "create", Outcome: outcome, Reason: reason,
	}
	if err != nil {
		observability.EmitAudit(r, in)
		writeServiceError(w, r, err)
		return
	}
	in.TargetID = idString(business.ID)
	observability.EmitAudit(r, in)
	response.JSON(w, r, http.StatusCreated, business)
}

func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	res, err := h.businessSvc.List(r.Context(), service.BusinessListQuery{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Page:     page,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(res))
}

func (h *BusinessHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	business, err := h.businessSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, business)
}

func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	var req updateBusinessRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	business, err := h.businessSvc.Update(r.Context(), user, id, service.UpdateBusinessInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Category:    req.Category,
	})
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "business.update", ActorUserID: idString(user.ID), TargetType: "business", TargetID: idString(id),
		Action: "update", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, business)
}

func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	err = h.businessSvc.Delete(r.Context(), user, id)
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "business.delete", ActorUserID: idString(user.ID), TargetType: "business", TargetID: idString(id),
		Action: "delete", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
