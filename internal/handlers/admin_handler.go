package handlers

import (
	"net/http"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/dto"
	"farmlink-backend/internal/services"
	"farmlink-backend/internal/storage"
	"farmlink-backend/utils/response"
)

type AdminHandler struct {
	service *services.AdminService
	auth    *services.AuthService
	images  *storage.ImageStore
}

func NewAdminHandler(db *database.DB, auth *services.AuthService, images *storage.ImageStore) *AdminHandler {
	return &AdminHandler{
		service: services.NewAdminService(db),
		auth:    auth,
		images:  images,
	}
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stats, err := h.service.Stats(actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    stats,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	users, err := h.service.ListUsers(actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    users,
	})
}

func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.ChangeRoleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.ChangeRole(actor, userID, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "Role updated",
	})
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.AdminUpdateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.UpdateUser(actor, userID, services.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    user,
		Message: "User updated",
	})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	removedImages, err := h.service.DeleteUser(actor, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	removeImages(h.images, removedImages...)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "User deleted",
	})
}
