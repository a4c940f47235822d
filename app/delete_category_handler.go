package app

import (
	"catalog/app/catalog"
	"context"
)

type DeleteCategoryHandler struct {
	service *catalog.AdminService
}

func NewDeleteCategoryHandler(service *catalog.AdminService) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		service: service,
	}
}

type DeleteCategoryRequest struct {
	ID int64 `params:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*MessageResponse, error) {
	if err := h.service.DeleteCategory(ctx, req.ID); err != nil {
		return nil, fromCatalog(err, "category.destroy.failed", "An error occurred while deleting the category")
	}

	return &MessageResponse{
		Message: "Category deleted successfully",
	}, nil
}
