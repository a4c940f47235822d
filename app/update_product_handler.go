package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"

	"github.com/shopspring/decimal"
)

type UpdateProductHandler struct {
	service *catalog.AdminService
}

func NewUpdateProductHandler(service *catalog.AdminService) *UpdateProductHandler {
	return &UpdateProductHandler{
		service: service,
	}
}

// UpdateProductRequest replaces every mutable field; omitted fields are
// cleared, and an omitted in_stock resets to true.
type UpdateProductRequest struct {
	ID          int64            `json:"-" params:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *int64           `json:"category_id"`
	InStock     *bool            `json:"in_stock"`
}

func (r UpdateProductRequest) toCatalog() catalog.ProductRequest {
	return catalog.ProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
		InStock:     r.InStock,
	}
}

type UpdateProductResponse struct {
	domain.Product
}

func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*UpdateProductResponse, error) {
	product, err := h.service.UpdateProduct(ctx, req.ID, req.toCatalog())
	if err != nil {
		return nil, fromCatalog(err, "product.update.failed", "An error occurred while updating the product")
	}

	return &UpdateProductResponse{
		Product: product,
	}, nil
}
