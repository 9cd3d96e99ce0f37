package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/models"
	"farmlink-backend/internal/services"
	"farmlink-backend/internal/storage"
	"farmlink-backend/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 16 * 1024 * 1024 // 16MB

var validate = validator.New()

func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// currentActor resolves the authenticated user behind the request from its
// token claims, re-reading the stored row so role changes take effect
// immediately. Returns nil for anonymous requests.
func currentActor(r *http.Request, auth *services.AuthService) (*models.User, error) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return nil, nil
	}

	user, err := auth.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// Token outlived the account.
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// writeServiceError translates service error kinds into HTTP statuses.
// Unknown errors are logged and surface as a generic failure.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		response.Error(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, services.ErrForbidden):
		response.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error("request failed")
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// pageParam parses the 1-based ?page= query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// saveFormImage stores the optional image file of a multipart form and
// returns its reference, or "" when the field is absent or the extension is
// not allowed.
func saveFormImage(r *http.Request, field, folder string, images *storage.ImageStore) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: bad %s upload", services.ErrInvalidInput, field)
	}
	defer file.Close()

	return images.Save(file, header.Filename, folder)
}

// removeImages deletes image files left behind by a committed mutation.
// Failures are logged, not surfaced: the database state is already correct.
func removeImages(images *storage.ImageStore, refs ...string) {
	if err := images.RemoveAll(refs); err != nil {
		logrus.WithError(err).Warn("failed to remove image files")
	}
}
