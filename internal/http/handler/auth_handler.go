package handler

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/lcolonia21/BizGuide-Final-System/internal/http/middleware"
	"github.com/lcolonia21/BizGuide-Final-System/internal/http/response"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
	"github.com/lcolonia21/BizGuide-Final-System/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	user, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		reason := "internal"
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			reason = "duplicate_email"
		case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrMissingFullName):
			reason = "invalid_input"
		}
		observability.EmitAudit(r, observability.AuditInput{
			EventName: "auth.register", TargetType: "user", Action: "register", Outcome: "failure", Reason: reason,
		})
		writeServiceError(w, r, err)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "auth.register", ActorUserID: idString(user.ID), TargetType: "user", TargetID: idString(user.ID),
		Action: "register", Outcome: "success",
	})
	response.JSON(w, r, http.StatusCreated, user)
}

// Token accepts either a JSON body or the OAuth2 password-grant form, where
// the email travels in the username field.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	req, err := readTokenRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	result, err := h.authSvc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       middleware.ClientIP(r),
	})
	if err != nil {
		reason := "internal"
		switch {
		case errors.Is(err, service.ErrLoginThrottled):
			reason = "throttled"
		case errors.Is(err, service.ErrAuthenticationFailed):
			reason = "invalid_credentials"
		}
		observability.EmitAudit(r, observability.AuditInput{
			EventName: "auth.login", TargetType: "user", Action: "login", Outcome: "failure", Reason: reason,
		})
		writeServiceError(w, r, err)
		return
	}
	actor := ""
	if result.User != nil {
		actor = idString(result.User.ID)
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName: "auth.login", ActorUserID: actor, TargetType: "user", TargetID: actor, Action: "login", Outcome: "success",
	})
	response.Bare(w, r, http.StatusOK, map[string]any{
		"access_token": result.AccessToken,
		"token_type":   result.TokenType,
		"expires_at":   result.ExpiresAt,
	})
}

func readTokenRequest(r *http.Request) (tokenRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return tokenRequest{}, err
		}
		email := strings.TrimSpace(r.PostForm.Get("username"))
		if email == "" {
			email = strings.TrimSpace(r.PostForm.Get("email"))
		}
		return tokenRequest{Email: email, Password: r.PostForm.Get("password")}, nil
	default:
		var req tokenRequest
		if err := decodeJSON(r, &req); err != nil {
			return tokenRequest{}, err
		}
		return req, nil
	}
}
