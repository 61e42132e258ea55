package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"account_api/internal/api/middleware"
	"account_api/internal/app/service"
	"account_api/internal/common"
	"account_api/internal/common/validation"
	"account_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

func (h *AccountHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Post("/refresh", h.refresh)
	r.Get("/profile", h.profile)
	r.Put("/profile", h.updateProfile)
}

type registerResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type profileResponse struct {
	Status int         `json:"status"`
	Data   *model.User `json:"data"`
}

type updateProfileResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    *model.User `json:"data"`
}

func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.accountService.Register(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, registerResponse{
		Status:  http.StatusOK,
		Message: "Account Created Successfully",
		User:    user,
	})
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	tokens, err := h.accountService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			common.RespondWithError(w, http.StatusUnauthorized, "Username or Password is incorrect")
			return
		}
		respondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tokens)
}

func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	expiresAt, okExp := middleware.GetTokenExpiryFromContext(r.Context())
	if !ok || !okExp {
		common.RespondWithError(w, http.StatusUnauthorized, "User is not Authenticated!")
		return
	}

	if err := h.accountService.Logout(r.Context(), tokenID, expiresAt); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.StatusResponse{Status: http.StatusOK, Message: "User logged out!"})
}

func (h *AccountHandler) refresh(w http.ResponseWriter, r *http.Request) {
	userID, okUser := middleware.GetUserIDFromContext(r.Context())
	tokenID, okToken := middleware.GetTokenIDFromContext(r.Context())
	expiresAt, okExp := middleware.GetTokenExpiryFromContext(r.Context())
	if !okUser || !okToken || !okExp {
		common.RespondWithError(w, http.StatusUnauthorized, "User is not Authenticated!")
		return
	}

	tokens, err := h.accountService.Refresh(r.Context(), tokenID, expiresAt, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tokens)
}

func (h *AccountHandler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User is not Authenticated!")
		return
	}

	user, err := h.accountService.Profile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, profileResponse{Status: http.StatusOK, Data: user})
}

func (h *AccountHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User is not Authenticated!")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.accountService.UpdateProfile(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updateProfileResponse{
		Status:  http.StatusOK,
		Message: "User information updated Successfully!",
		Data:    user,
	})
}

// respondWithServiceError renders validation failures as field-error
// maps and everything else through the shared status mapping.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		common.RespondWithFieldErrors(w, fieldErrs)
		return
	}
	common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
}
