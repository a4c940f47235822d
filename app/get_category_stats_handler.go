package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type GetCategoryStatsHandler struct {
	service *catalog.QueryService
}

func NewGetCategoryStatsHandler(service *catalog.QueryService) *GetCategoryStatsHandler {
	return &GetCategoryStatsHandler{
		service: service,
	}
}

type GetCategoryStatsRequest struct{}

type GetCategoryStatsResponse []domain.CategoryStats

func (h GetCategoryStatsHandler) Handle(ctx context.Context, _ *GetCategoryStatsRequest) (*GetCategoryStatsResponse, error) {
	stats, err := h.service.GetCategoryStats(ctx)
	if err != nil {
		return nil, fromCatalog(err, "category.stats.failed", "Failed to retrieve category statistics")
	}

	res := GetCategoryStatsResponse(stats)
	return &res, nil
}
