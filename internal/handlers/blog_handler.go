package handlers

import (
	"net/http"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/dto"
	"farmlink-backend/internal/services"
	"farmlink-backend/internal/storage"
	"farmlink-backend/utils/response"

	"github.com/google/uuid"
)

type BlogHandler struct {
	service *services.BlogService
	auth    *services.AuthService
	images  *storage.ImageStore
}

func NewBlogHandler(db *database.DB, auth *services.AuthService, images *storage.ImageStore) *BlogHandler {
	return &BlogHandler{
		service: services.NewBlogService(db),
		auth:    auth,
		images:  images,
	}
}

func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	viewer, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	page := pageParam(r)
	posts, hasNext, err := h.service.ListPosts(page, viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    response.Page{Items: posts, Page: page, HasNext: hasNext},
	})
}

func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r, h.auth)
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

	req := dto.PostRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	image, err := saveFormImage(r, "post_image", storage.FolderBlog, h.images)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	post, err := h.service.CreatePost(actor, req.Title, req.Content, image)
	if err != nil {
		removeImages(h.images, image)
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    post,
		Message: "Post created successfully",
	})
}

func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	viewer, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	post, comments, err := h.service.GetPost(postID, viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data: map[string]interface{}{
			"post":     post,
			"comments": comments,
		},
	})
}

func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
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

	req := dto.PostRequest{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	newImage, err := saveFormImage(r, "post_image", storage.FolderBlog, h.images)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	post, replacedImage, err := h.service.UpdatePost(actor, postID, req.Title, req.Content, newImage)
	if err != nil {
		removeImages(h.images, newImage)
		writeServiceError(w, err)
		return
	}
	removeImages(h.images, replacedImage)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    post,
		Message: "Post updated successfully",
	})
}

func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	removedImages, err := h.service.DeletePost(actor, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	removeImages(h.images, removedImages...)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Post deleted",
	})
}

func (h *BlogHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var req dto.CommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.service.CreateComment(actor, postID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    comment,
		Message: "Comment posted",
	})
}

func (h *BlogHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.service.DeleteComment(actor, commentID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Comment deleted",
	})
}

func (h *BlogHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	liked, likeCount, err := h.service.ToggleLike(actor, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    dto.LikeToggleResponse{Liked: liked, LikeCount: likeCount},
	})
}

// pathID parses the {id} path segment. Replies 400 itself when malformed.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "'id' is not a valid identifier")
		return uuid.Nil, false
	}
	return id, true
}
