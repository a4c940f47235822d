package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type GetProductHandler struct {
	service *catalog.QueryService
}

func NewGetProductHandler(service *catalog.QueryService) *GetProductHandler {
	return &GetProductHandler{
		service: service,
	}
}

type GetProductRequest struct {
	ID int64 `params:"id"`
}

type GetProductResponse struct {
	domain.Product
}

func (h GetProductHandler) Handle(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	product, err := h.service.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, fromCatalog(err, "product.show.failed", "Failed to retrieve product")
	}

	return &GetProductResponse{
		Product: product,
	}, nil
}
