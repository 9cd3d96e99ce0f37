package handlers

import (
	"net/http"
	"time"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/dto"
	"farmlink-backend/internal/services"
	"farmlink-backend/internal/storage"
	"farmlink-backend/utils/response"
)

type AuthHandler struct {
	service  *services.AuthService
	images   *storage.ImageStore
	tokenTTL time.Duration
}

func NewAuthHandler(db *database.DB, jwtSecret string, tokenTTL time.Duration, images *storage.ImageStore) *AuthHandler {
	return &AuthHandler{
		service:  services.NewAuthService(db, jwtSecret, tokenTTL),
		images:   images,
		tokenTTL: tokenTTL,
	}
}

func (h *AuthHandler) Service() *services.AuthService {
	return h.service
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "User registered successfully",
	})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.Login(req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "User logged in successfully",
	})
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "User logged out successfully",
	})
}

func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.service)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if actor == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    actor,
	})
}

// CompleteProfile fills in the actor's profile from a multipart form with an
// optional profile image.
func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.service)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if actor == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	req := dto.ProfileRequest{
		Phone:   r.FormValue("phone"),
		Address: r.FormValue("address"),
		Bio:     r.FormValue("bio"),
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	newImage, err := saveFormImage(r, "profile_image", storage.FolderProfile, h.images)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	user, replacedImage, err := h.service.CompleteProfile(actor, req.Phone, req.Address, req.Bio, newImage)
	if err != nil {
		removeImages(h.images, newImage)
		writeServiceError(w, err)
		return
	}
	removeImages(h.images, replacedImage)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "Profile completed",
	})
}

func (h *AuthHandler) SkipProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.service)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if actor == nil {
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.service.SkipProfile(actor); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Profile skipped for now",
	})
}

// ListConsultants is the public consultant directory.
func (h *AuthHandler) ListConsultants(w http.ResponseWriter, r *http.Request) {
	consultants, err := h.service.Consultants()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    consultants,
	})
}
