package handler

import (
	"net/http"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

type UserHandler struct {
	businessSvc service.BusinessServiceInterface
}

func NewUserHandler(businessSvc service.BusinessServiceInterface) *UserHandler {
	return &UserHandler{businessSvc: businessSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// MyBusinesses lists the businesses owned by the caller.
func (h *UserHandler) MyBusinesses(w http.ResponseWriter, r *http.Request) {
	user, ok := identity(w, r)
	if !ok {
		return
	}
	page, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	res, err := h.businessSvc.List(r.Context(), service.BusinessListQuery{OwnerID: user.ID, Page: page})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, paginatedData(res))
}
