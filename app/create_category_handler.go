package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"context"
)

type CreateCategoryHandler struct {
	service *catalog.AdminService
}

func NewCreateCategoryHandler(service *catalog.AdminService) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		service: service,
	}
}

type CreateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CreateCategoryResponse struct {
	domain.Category
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	category, err := h.service.CreateCategory(ctx, catalog.CategoryRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, fromCatalog(err, "category.create.failed", "An error occurred while creating the category")
	}

	return &CreateCategoryResponse{
		Category: category,
	}, nil
}
