package app

import (
	"catalog/app/catalog"
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/webp": ".webp",
}

// ImageStore persists product images and knows their public address.
type ImageStore interface {
	Upload(key string, data []byte) error
	Delete(key string) error
	URL(key string) string
}

type UploadProductImageHandler struct {
	query  *catalog.QueryService
	admin  *catalog.AdminService
	images ImageStore
}

func NewUploadProductImageHandler(query *catalog.QueryService, admin *catalog.AdminService, images ImageStore) *UploadProductImageHandler {
	return &UploadProductImageHandler{
		query:  query,
		admin:  admin,
		images: images,
	}
}

type UploadProductImageRequest struct {
	ID int64 `params:"id"`
}

type UploadProductImageResponse struct {
	domain.Product
}

func (h *UploadProductImageHandler) Handle(ctx context.Context, req *UploadProductImageRequest) (*UploadProductImageResponse, error) {
	c, ok := fiberContext(ctx)
	if !ok {
		return nil, httperror.InternalServerError("upload.no_context", "Fiber context not found", nil)
	}

	if h.images == nil {
		return nil, httperror.New(fiber.StatusServiceUnavailable, "upload.storage_disabled", "Image storage is not configured", nil)
	}

	if _, err := h.query.GetProduct(ctx, req.ID); err != nil {
		return nil, fromCatalog(err, "upload.product_lookup_failed", "Failed to retrieve product")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return nil, httperror.BadRequest("upload.missing_file", "Image file is required (use 'image' field)", fiber.Map{"error": err.Error()})
	}

	if file.Size > maxImageSize {
		return nil, httperror.BadRequest("upload.file_too_large", "File size must not exceed 5MB",
			fiber.Map{
				"size_mb": float64(file.Size) / 1024 / 1024,
				"max_mb":  5,
			})
	}

	contentType := file.Header.Get("Content-Type")
	extension, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, httperror.BadRequest("upload.invalid_content_type", "Only PNG, JPEG and WEBP images are allowed",
			fiber.Map{
				"received": contentType,
				"allowed":  []string{"image/png", "image/jpeg", "image/jpg", "image/webp"},
			})
	}

	fileReader, err := file.Open()
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_open_error", "Failed to open uploaded file", err.Error())
	}
	defer fileReader.Close()

	data, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, httperror.InternalServerError("upload.file_read_error", "Failed to read file content", err.Error())
	}

	key := fmt.Sprintf("products/%d/%s%s", req.ID, uuid.New().String(), extension)
	if err := h.images.Upload(key, data); err != nil {
		return nil, httperror.InternalServerError("upload.store_failed", "Failed to upload image to storage", err.Error())
	}

	product, err := h.admin.SetProductImage(ctx, req.ID, h.images.URL(key))
	if err != nil {
		if deleteErr := h.images.Delete(key); deleteErr != nil {
			zap.L().Warn("Failed to remove orphaned image", zap.String("key", key), zap.Error(deleteErr))
		}
		return nil, fromCatalog(err, "upload.save_failed", "Failed to save product image")
	}

	return &UploadProductImageResponse{
		Product: product,
	}, nil
}
