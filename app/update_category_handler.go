package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type UpdateCategoryHandler struct {
	service *catalog.AdminService
}

func NewUpdateCategoryHandler(service *catalog.AdminService) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		service: service,
	}
}

type UpdateCategoryRequest struct {
	ID          int64   `json:"-" params:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UpdateCategoryResponse struct {
	domain.Category
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	category, err := h.service.UpdateCategory(ctx, req.ID, catalog.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, fromCatalog(err, "category.update.failed", "An error occurred while updating the category")
	}

	return &UpdateCategoryResponse{
		Category: category,
	}, nil
}
