package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type GetCategoriesHandler struct {
	service *catalog.QueryService
}

func NewGetCategoriesHandler(service *catalog.QueryService) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		service: service,
	}
}

type GetCategoriesRequest struct{}

type GetCategoriesResponse []domain.Category

func (h GetCategoriesHandler) Handle(ctx context.Context, _ *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	categories, err := h.service.ListCategories(ctx)
	if err != nil {
		return nil, fromCatalog(err, "category.index.failed", "Failed to retrieve categories")
	}

	res := GetCategoriesResponse(categories)
	return &res, nil
}
