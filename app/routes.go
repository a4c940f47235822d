package app

import (
	"catalog/app/catalog"

	"github.com/gofiber/fiber/v2"
)

type Services struct {
	Query  *catalog.QueryService
	Admin  *catalog.AdminService
	Images ImageStore
}

// RegisterRoutes mounts the public catalog routes and the product admin
// routes on router. /categories/stats is registered before /categories/:id.
func RegisterRoutes(router fiber.Router, services Services) {
	router.Get("/products", Handle[GetProductsRequest, GetProductsResponse](NewGetProductsHandler(services.Query)))
	router.Get("/products/:id", Handle[GetProductRequest, GetProductResponse](NewGetProductHandler(services.Query)))

	router.Get("/categories", Handle[GetCategoriesRequest, GetCategoriesResponse](NewGetCategoriesHandler(services.Query)))
	router.Get("/categories/stats", Handle[GetCategoryStatsRequest, GetCategoryStatsResponse](NewGetCategoryStatsHandler(services.Query)))
	router.Get("/categories/:id", Handle[GetCategoryRequest, GetCategoryResponse](NewGetCategoryHandler(services.Query)))
	router.Post("/categories", Handle[CreateCategoryRequest, CreateCategoryResponse](NewCreateCategoryHandler(services.Admin)))
	router.Put("/categories/:id", Handle[UpdateCategoryRequest, UpdateCategoryResponse](NewUpdateCategoryHandler(services.Admin)))
	router.Delete("/categories/:id", Handle[DeleteCategoryRequest, MessageResponse](NewDeleteCategoryHandler(services.Admin)))

	admin := router.Group("/admin")
	admin.Post("/products", Handle[CreateProductRequest, CreateProductResponse](NewCreateProductHandler(services.Admin)))
	admin.Put("/products/:id", Handle[UpdateProductRequest, UpdateProductResponse](NewUpdateProductHandler(services.Admin)))
	admin.Delete("/products/:id", Handle[DeleteProductRequest, MessageResponse](NewDeleteProductHandler(services.Admin)))
	admin.Post("/products/:id/image", Handle[UploadProductImageRequest, UploadProductImageResponse](
		NewUploadProductImageHandler(services.Query, services.Admin, services.Images),
	))
}
