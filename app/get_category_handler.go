package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type GetCategoryHandler struct {
	service *catalog.QueryService
}

func NewGetCategoryHandler(service *catalog.QueryService) *GetCategoryHandler {
	return &GetCategoryHandler{
		service: service,
	}
}

type GetCategoryRequest struct {
	ID int64 `params:"id"`
}

type GetCategoryResponse struct {
	domain.Category
}

func (h GetCategoryHandler) Handle(ctx context.Context, req *GetCategoryRequest) (*GetCategoryResponse, error) {
	category, err := h.service.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, fromCatalog(err, "category.show.failed", "Failed to retrieve category")
	}

	return &GetCategoryResponse{
		Category: category,
	}, nil
}
