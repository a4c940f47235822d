package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"strconv"
)

type GetProductsHandler struct {
	service *catalog.QueryService
}

func NewGetProductsHandler(service *catalog.QueryService) *GetProductsHandler {
	return &GetProductsHandler{
		service: service,
	}
}

// GetProductsRequest keeps the raw query values so that malformed numbers
// are reported as validation failures rather than parser errors.
type GetProductsRequest struct {
	Page       string `query:"page"`
	PageSize   string `query:"page_size"`
	CategoryID string `query:"category_id"`
}

type GetProductsResponse struct {
	domain.PaginatedProducts
}

func (h GetProductsHandler) Handle(ctx context.Context, req *GetProductsRequest) (*GetProductsResponse, error) {
	page, err := queryInt("page", req.Page, 1)
	if err != nil {
		return nil, err
	}

	pageSize, err := queryInt("page_size", req.PageSize, catalog.DefaultPageSize)
	if err != nil {
		return nil, err
	}

	var categoryID *int64
	if req.CategoryID != "" {
		id, err := strconv.ParseInt(req.CategoryID, 10, 64)
		if err != nil {
			return nil, invalidQuery("category_id", req.CategoryID)
		}
		// category_id=0 means no filter.
		if id != 0 {
			categoryID = &id
		}
	}

	products, err := h.service.GetProducts(ctx, page, pageSize, categoryID)
	if err != nil {
		return nil, fromCatalog(err, "product.index.failed", "Failed to retrieve products")
	}

	return &GetProductsResponse{
		PaginatedProducts: products,
	}, nil
}

func queryInt(name, raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidQuery(name, raw)
	}

	return value, nil
}

func invalidQuery(name, raw string) error {
	return httperror.UnprocessableEntity(
		"product.index.invalid_query",
		name+" must be an integer",
		map[string]string{name: raw},
	)
}
