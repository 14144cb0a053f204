package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

type ReviewHandler struct {
	reviewSvc service.ReviewServiceInterface
}

func NewReviewHandler(reviewSvc service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

type createReviewRequest struct {
	BusinessID uint   `json:"business_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	review, err := h.reviewSvc.Create(r.Context(), user, service.CreateReviewInput{
		BusinessID: req.BusinessID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	outcome, reason := auditOutcome(err)
	in := observability.AuditInput{
		EventName: "review.create", ActorUserID: idString(user.ID), TargetType: "review",
		Action: "create", Outcome: outcome, Reason: reason,
	}
	if err != nil {
		observability.EmitAudit(r, in)
		writeServiceError(w, r, err)
		return
	}
	in.TargetID = idString(review.ID)
	observability.EmitAudit(r, in)
	response.JSON(w, r, http.StatusCreated, review)
}

func (h *ReviewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid review id", nil)
		return
	}
	review, err := h.reviewSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, review)
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid review id", nil)
		return
	}
	var req updateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	review, err := h.reviewSvc.Update(r.Context(), user, id, service.UpdateReviewInput{Rating: req.Rating, Comment: req.Comment})
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "review.update", ActorUserID: idString(user.ID), TargetType: "review", TargetID: idString(id),
		Action: "update", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid review id", nil)
		return
	}
	err = h.reviewSvc.Delete(r.Context(), user, id)
	outcome, reason := auditOutcome(err)
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "review.delete", ActorUserID: idString(user.ID), TargetType: "review", TargetID: idString(id),
		Action: "delete", Outcome: outcome, Reason: reason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ReviewHandler) ListByBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, err := parsePathID(chi.URLParam(r, "business_id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	res, err := h.reviewSvc.ListByBusiness(r.Context(), businessID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(res))
}

func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathID(chi.URLParam(r, "user_id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	res, err := h.reviewSvc.ListByUser(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(res))
}

// Rating reports the average for a business; zero reviews yield 0.
func (h *ReviewHandler) Rating(w http.ResponseWriter, r *http.Request) {
	businessID, err := parsePathID(chi.URLParam(r, "business_id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid business id", nil)
		return
	}
	res, err := h.reviewSvc.AverageRating(r.Context(), businessID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, res)
}
