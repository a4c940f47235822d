package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"

	"github.com/shopspring/decimal"
)

type CreateProductHandler struct {
	service *catalog.AdminService
}

func NewCreateProductHandler(service *catalog.AdminService) *CreateProductHandler {
	return &CreateProductHandler{
		service: service,
	}
}

type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *int64           `json:"category_id"`
	InStock     *bool            `json:"in_stock"`
}

func (r CreateProductRequest) toCatalog() catalog.ProductRequest {
	return catalog.ProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
		InStock:     r.InStock,
	}
}

type CreateProductResponse struct {
	domain.Product
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	product, err := h.service.CreateProduct(ctx, req.toCatalog())
	if err != nil {
		return nil, fromCatalog(err, "product.create.failed", "An error occurred while creating the product")
	}

	return &CreateProductResponse{
		Product: product,
	}, nil
}
