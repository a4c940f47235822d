package catalog

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/metrics"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const serviceName = "catalog"

// AdminService performs catalog mutations. Category names stay unique and a
// category cannot be deleted while products reference it.
type AdminService struct {
	repository     Repository
	authorizer     Authorizer
	eventPublisher events.Publisher
	now            func() time.Time
}

// NewAdminService wires the admin operations. A nil authorizer allows every
// caller; a nil publisher disables events.
func NewAdminService(repository Repository, authorizer Authorizer, eventPublisher events.Publisher) *AdminService {
	if authorizer == nil {
		authorizer = AllowAll{}
	}
	return &AdminService{
		repository:     repository,
		authorizer:     authorizer,
		eventPublisher: eventPublisher,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdminService) CreateCategory(ctx context.Context, req CategoryRequest) (domain.Category, error) {
	if err := validateRequest("category.create", req); err != nil {
		return domain.Category{}, s.observe("category", "create", err)
	}

	var created domain.Category
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		taken, err := nameTaken(ctx, tx, req.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return duplicateName("category.create")
		}

		created, err = tx.CreateCategory(ctx, domain.Category{
			Name:        req.Name,
			Description: req.Description,
			CreatedAt:   s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Category{}, s.observe("category", "create", classify("category.create", err))
	}
	s.observe("category", "create", nil)

	s.publish(ctx, events.CategoryExchange, events.CategoryCreatedEvent, categoryPayload(created))
	return created, nil
}

// UpdateCategory replaces name and description. Keeping the current name is
// allowed; taking another category's name is a conflict.
func (s *AdminService) UpdateCategory(ctx context.Context, id int64, req CategoryRequest) (domain.Category, error) {
	if err := validateRequest("category.update", req); err != nil {
		return domain.Category{}, s.observe("category", "update", err)
	}

	var updated domain.Category
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		category, err := tx.GetCategory(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NotFound("category.update.not_found", "Category not found")
			}
			return err
		}

		taken, err := nameTaken(ctx, tx, req.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicateName("category.update")
		}

		category.Name = req.Name
		category.Description = req.Description
		if err := tx.UpdateCategory(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return domain.Category{}, s.observe("category", "update", classify("category.update", err))
	}
	s.observe("category", "update", nil)

	s.publish(ctx, events.CategoryExchange, events.CategoryUpdatedEvent, categoryPayload(updated))
	return updated, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NotFound("category.destroy.not_found", "Category not found")
			}
			return err
		}

		dependents, err := tx.CountProductsInCategory(ctx, id)
		if err != nil {
			return err
		}
		if dependents > 0 {
			return hasProducts()
		}

		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		// The foreign key rejects the delete if a product was linked after the count.
		if errors.Is(err, ErrReferenced) {
			err = hasProducts()
		}
		return s.observe("category", "delete", classify("category.destroy", err))
	}
	s.observe("category", "delete", nil)

	s.publish(ctx, events.CategoryExchange, events.CategoryDeletedEvent, events.CategoryDeletedPayload{
		ID:        id,
		DeletedAt: s.now(),
	})
	return nil
}

// CreateProduct inserts a product and returns it joined with its category.
// The category id is not looked up first; a dangling reference is only
// caught by the store's foreign key.
func (s *AdminService) CreateProduct(ctx context.Context, req ProductRequest) (domain.Product, error) {
	if err := s.authorize(ctx); err != nil {
		return domain.Product{}, s.observe("product", "create", err)
	}
	if err := validateRequest("product.create", req); err != nil {
		return domain.Product{}, s.observe("product", "create", err)
	}

	var created domain.Product
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		inserted, err := tx.CreateProduct(ctx, domain.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       *req.Price,
			ImageURL:    req.ImageURL,
			CategoryID:  req.CategoryID,
			InStock:     req.inStock(),
			CreatedAt:   s.now(),
		})
		if err != nil {
			return err
		}

		created, err = tx.GetProductWithCategory(ctx, inserted.ID)
		return err
	})
	if err != nil {
		return domain.Product{}, s.observe("product", "create", classify("product.create", err))
	}
	s.observe("product", "create", nil)

	s.publish(ctx, events.ProductExchange, events.ProductCreatedEvent, productPayload(created))
	return created, nil
}

// UpdateProduct overwrites every mutable field of the product with req.
func (s *AdminService) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (domain.Product, error) {
	if err := s.authorize(ctx); err != nil {
		return domain.Product{}, s.observe("product", "update", err)
	}
	if err := validateRequest("product.update", req); err != nil {
		return domain.Product{}, s.observe("product", "update", err)
	}

	return s.mutateProduct(ctx, "update", id, func(p *domain.Product) {
		p.Name = req.Name
		p.Description = req.Description
		p.Price = *req.Price
		p.ImageURL = req.ImageURL
		p.CategoryID = req.CategoryID
		p.InStock = req.inStock()
	})
}

// SetProductImage points the product at a newly stored image.
func (s *AdminService) SetProductImage(ctx context.Context, id int64, imageURL string) (domain.Product, error) {
	if err := s.authorize(ctx); err != nil {
		return domain.Product{}, s.observe("product", "update", err)
	}

	return s.mutateProduct(ctx, "update", id, func(p *domain.Product) {
		p.ImageURL = &imageURL
	})
}

// SetProductStock flips the in-stock flag, leaving other fields untouched.
func (s *AdminService) SetProductStock(ctx context.Context, id int64, inStock bool) (domain.Product, error) {
	if err := s.authorize(ctx); err != nil {
		return domain.Product{}, s.observe("product", "update", err)
	}

	return s.mutateProduct(ctx, "update", id, func(p *domain.Product) {
		p.InStock = inStock
	})
}

func (s *AdminService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.authorize(ctx); err != nil {
		return s.observe("product", "delete", err)
	}

	var deleted domain.Product
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		product, err := tx.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NotFound("product.destroy.not_found", "Product not found")
			}
			return err
		}
		deleted = product
		return tx.DeleteProduct(ctx, id)
	})
	if err != nil {
		return s.observe("product", "delete", classify("product.destroy", err))
	}
	s.observe("product", "delete", nil)

	s.publish(ctx, events.ProductExchange, events.ProductDeletedEvent, events.ProductDeletedPayload{
		ID:         deleted.ID,
		CategoryID: deleted.CategoryID,
		DeletedAt:  s.now(),
	})
	return nil
}

func (s *AdminService) mutateProduct(ctx context.Context, action string, id int64, apply func(p *domain.Product)) (domain.Product, error) {
	code := "product." + action

	var updated domain.Product
	err := s.repository.WithinTx(ctx, func(tx Tx) error {
		product, err := tx.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NotFound(code+".not_found", "Product not found")
			}
			return err
		}

		apply(&product)
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return err
		}

		updated, err = tx.GetProductWithCategory(ctx, id)
		return err
	})
	if err != nil {
		return domain.Product{}, s.observe("product", action, classify(code, err))
	}
	s.observe("product", action, nil)

	s.publish(ctx, events.ProductExchange, events.ProductUpdatedEvent, productPayload(updated))
	return updated, nil
}

func (s *AdminService) authorize(ctx context.Context) error {
	caller := CallerFromContext(ctx)
	if err := s.authorizer.AuthorizeAdmin(ctx, caller); err != nil {
		zap.L().Warn("Admin access denied",
			zap.String("callerId", caller.ID),
			zap.Error(err),
		)
		return &Error{Kind: KindForbidden, Code: "admin.forbidden", Message: "Not authorized", Err: err}
	}
	return nil
}

func (s *AdminService) observe(entity, action string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	metrics.ObserveMutation(entity, action, outcome)
	return err
}

func (s *AdminService) publish(ctx context.Context, exchange, name string, payload any) {
	if s.eventPublisher == nil {
		return
	}

	headers := events.NewHeaders(serviceName)
	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := s.eventPublisher.Publish(ctx, exchange, event, headers); err != nil {
		zap.L().Error("Failed to publish catalog event",
			zap.String("event", name),
			zap.String("traceId", headers.TraceID),
			zap.Error(err),
		)
	}
}

// nameTaken reports whether a category other than exceptID already uses name.
func nameTaken(ctx context.Context, tx Tx, name string, exceptID int64) (bool, error) {
	existing, err := tx.GetCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != exceptID, nil
}

func duplicateName(code string) *Error {
	return Conflict(code+".duplicate_name", "Category with this name already exists")
}

func hasProducts() *Error {
	return Conflict("category.destroy.has_products", "Cannot delete category that has products. Please reassign products first.")
}

// classify turns store failures into catalog errors. Already classified
// errors pass through; anything unrecognised is wrapped as internal.
func classify(code string, err error) error {
	var catalogErr *Error
	switch {
	case errors.As(err, &catalogErr):
		return err
	case errors.Is(err, ErrDuplicate):
		return &Error{Kind: KindConflict, Code: code + ".duplicate_name", Message: "Category with this name already exists", Err: err}
	case errors.Is(err, ErrReferenced):
		return &Error{Kind: KindValidation, Code: code + ".category_missing", Message: "Referenced category does not exist", Err: err}
	default:
		return fmt.Errorf("%s: %w", code, err)
	}
}

func categoryPayload(c domain.Category) events.CategoryPayload {
	return events.CategoryPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func productPayload(p domain.Product) events.ProductPayload {
	return events.ProductPayload{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
	}
}
