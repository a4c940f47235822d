package app

import (
	"catalog/app/catalog"
	"context"
)

type DeleteProductHandler struct {
	service *catalog.AdminService
}

func NewDeleteProductHandler(service *catalog.AdminService) *DeleteProductHandler {
	return &DeleteProductHandler{
		service: service,
	}
}

type DeleteProductRequest struct {
	ID int64 `params:"id"`
}

func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*MessageResponse, error) {
	if err := h.service.DeleteProduct(ctx, req.ID); err != nil {
		return nil, fromCatalog(err, "product.destroy.failed", "An error occurred while deleting the product")
	}

	return &MessageResponse{
		Message: "Product deleted successfully",
	}, nil
}
