package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tilehub/tilehub-go/internal/middleware"
	"github.com/tilehub/tilehub-go/internal/model"
	"github.com/tilehub/tilehub-go/internal/service"
)

// validationResponse carries the structured field errors alongside the
// generic message.
type validationResponse struct {
	Message string                   `json:"message"`
	Errors  service.ValidationErrors `json:"errors"`
}

// AuthHandler handles HTTP requests for registration, authentication and
// profile management.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/users/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: verrs})
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusBadRequest, messageResponse(err.Error()))
		default:
			slog.Error("register failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/users/login requests. Unknown email and
// wrong password produce the identical response.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: verrs})
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, messageResponse(service.ErrInvalidCredentials.Error()))
		default:
			slog.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetProfile handles GET /api/users/profile requests.
func (h *AuthHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse("unauthorized"))
		return
	}

	resp, err := h.service.GetProfile(r.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse(err.Error()))
			return
		}
		slog.Error("get profile failed", "error", err, "user_id", ident.UserID)
		writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateProfile handles PUT /api/users/profile requests.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse("unauthorized"))
		return
	}

	var req model.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), ident.UserID, req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: verrs})
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusBadRequest, messageResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse(err.Error()))
		default:
			slog.Error("update profile failed", "error", err, "user_id", ident.UserID)
			writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleChangePassword handles PUT /api/users/password requests.
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse("unauthorized"))
		return
	}

	var req model.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), ident.UserID, req); err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			writeJSON(w, http.StatusBadRequest, validationResponse{Message: "validation failed", Errors: verrs})
		case errors.Is(err, service.ErrSamePassword):
			writeJSON(w, http.StatusBadRequest, messageResponse(err.Error()))
		case errors.Is(err, service.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, messageResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, messageResponse(err.Error()))
		default:
			slog.Error("change password failed", "error", err, "user_id", ident.UserID)
			writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("password changed"))
}

// HandleDeleteAccount handles DELETE /api/users/profile requests.
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, messageResponse("unauthorized"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), ident.UserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse(err.Error()))
			return
		}
		slog.Error("delete account failed", "error", err, "user_id", ident.UserID)
		writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
