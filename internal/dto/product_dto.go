package dto

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Category    string  `json:"category" validate:"required,oneof=vegetables fruits grains dairy specialty inputs"`
	Description string  `json:"description" validate:"required,min=10,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	Location    string  `json:"location" validate:"required,min=3,max=255"`
	Contact     string  `json:"contact" validate:"required,min=10,max=20"`
}
