package handlers

import (
	"net/http"
	"strconv"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/dto"
	"farmlink-backend/internal/services"
	"farmlink-backend/internal/storage"
	"farmlink-backend/utils/response"
)

type ProductHandler struct {
	service *services.ProductService
	auth    *services.AuthService
	images  *storage.ImageStore
}

func NewProductHandler(db *database.DB, auth *services.AuthService, images *storage.ImageStore) *ProductHandler {
	return &ProductHandler{
		service: services.NewProductService(db),
		auth:    auth,
		images:  images,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	category := r.URL.Query().Get("category")

	products, hasNext, err := h.service.ListProducts(page, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    response.Page{Items: products, Page: page, HasNext: hasNext},
	})
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
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

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "'price' is not a valid number")
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "'quantity' is not a valid integer")
		return
	}

	req := dto.ProductRequest{
		Name:        r.FormValue("name"),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Price:       price,
		Quantity:    quantity,
		Location:    r.FormValue("location"),
		Contact:     r.FormValue("contact"),
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	image, err := saveFormImage(r, "product_image", storage.FolderProduct, h.images)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	product, err := h.service.CreateProduct(actor, services.NewProduct{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Location:    req.Location,
		Contact:     req.Contact,
		Image:       image,
	})
	if err != nil {
		removeImages(h.images, image)
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data:    product,
		Message: "Product listed successfully",
	})
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(productID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    product,
	})
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	actor, err := currentActor(r, h.auth)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	removedImage, err := h.service.DeleteProduct(actor, productID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	removeImages(h.images, removedImage)

	response.JSON(w, http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "Product deleted",
	})
}
