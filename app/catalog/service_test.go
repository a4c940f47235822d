package catalog_test

import (
	"catalog/app/catalog"
	"catalog/domain"
	"catalog/infra/sqlstore/sqlstoretest"
	"catalog/pkg/events"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	query     *catalog.QueryService
	admin     *catalog.AdminService
	published *events.RecordingPublisher
}

func newFixture(t *testing.T, authorizer catalog.Authorizer) fixture {
	t.Helper()
	repo := sqlstoretest.Open(t)
	published := &events.RecordingPublisher{}

	return fixture{
		query:     catalog.NewQueryService(repo),
		admin:     catalog.NewAdminService(repo, authorizer, published),
		published: published,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func price(s string) *decimal.Decimal {
	return ptr(decimal.RequireFromString(s))
}

// booksFixture creates category "Books" and product "Go Guide" in it.
func booksFixture(t *testing.T, f fixture) (domain.Category, domain.Product) {
	t.Helper()
	ctx := context.Background()

	books, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Books"})
	require.NoError(t, err)

	guide, err := f.admin.CreateProduct(ctx, catalog.ProductRequest{
		Name:       "Go Guide",
		Price:      price("9.99"),
		CategoryID: &books.ID,
	})
	require.NoError(t, err)

	return books, guide
}

func TestGetProductsFirstPage(t *testing.T) {
	f := newFixture(t, nil)
	books, guide := booksFixture(t, f)

	res, err := f.query.GetProducts(context.Background(), 1, 1, nil)
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, guide.ID, res.Items[0].ID)
	require.NotNil(t, res.Items[0].Category)
	assert.Equal(t, books.ID, res.Items[0].Category.ID)
	assert.Equal(t, "Books", res.Items[0].Category.Name)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 1, res.Pages)
	assert.False(t, res.HasNext)
	assert.False(t, res.HasPrev)
}

func TestGetProductsPastLastPage(t *testing.T) {
	f := newFixture(t, nil)
	booksFixture(t, f)

	res, err := f.query.GetProducts(context.Background(), 2, 1, nil)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestGetProductsPageBeyondOffsetRange(t *testing.T) {
	f := newFixture(t, nil)
	booksFixture(t, f)

	res, err := f.query.GetProducts(context.Background(), math.MaxInt/100+2, 100, nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.Product{}, res.Items)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, math.MaxInt/100+2, res.Page)
	assert.False(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestGetProductsEmptyCatalog(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.query.GetProducts(context.Background(), 1, 12, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Pages)
	assert.Equal(t, []domain.Product{}, res.Items)
	assert.False(t, res.HasNext)
	assert.False(t, res.HasPrev)
}

func TestGetProductsPagesThroughFilteredCategory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	books, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Books"})
	require.NoError(t, err)
	games, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Games"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := f.admin.CreateProduct(ctx, catalog.ProductRequest{Price: price("1"), Name: "book", CategoryID: &books.ID})
		require.NoError(t, err)
	}
	_, err = f.admin.CreateProduct(ctx, catalog.ProductRequest{Price: price("1"), Name: "game", CategoryID: &games.ID})
	require.NoError(t, err)

	pageSize := 2
	seen := 0
	for page := 1; page <= 3; page++ {
		res, err := f.query.GetProducts(ctx, page, pageSize, &books.ID)
		require.NoError(t, err)

		assert.Equal(t, 5, res.Total)
		assert.Equal(t, 3, res.Pages)
		assert.LessOrEqual(t, len(res.Items), pageSize)
		assert.Equal(t, page < 3, res.HasNext)
		assert.Equal(t, page > 1, res.HasPrev)
		for _, p := range res.Items {
			assert.Equal(t, books.ID, *p.CategoryID)
		}
		seen += len(res.Items)
	}
	assert.Equal(t, 5, seen)
}

func TestGetProductsRejectsOutOfRangeParameters(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	testCases := []struct {
		name           string
		page, pageSize int
	}{
		{"page zero", 0, 10},
		{"negative page", -1, 10},
		{"page size zero", 1, 0},
		{"page size too large", 1, catalog.MaxPageSize + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.query.GetProducts(ctx, tc.page, tc.pageSize, nil)
			assert.ErrorIs(t, err, catalog.ErrValidation)
		})
	}

	_, err := f.query.GetProducts(ctx, 1, catalog.MaxPageSize, nil)
	assert.NoError(t, err)
}

func TestGetProductNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.query.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestGetProductIsJoinedWithCategory(t *testing.T) {
	f := newFixture(t, nil)
	books, guide := booksFixture(t, f)

	got, err := f.query.GetProduct(context.Background(), guide.ID)
	require.NoError(t, err)

	assert.Equal(t, "Go Guide", got.Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, books.Name, got.Category.Name)
}

func TestCategoryStatsIncludesEveryCategory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	books, _ := booksFixture(t, f)

	empty, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Empty"})
	require.NoError(t, err)

	stats, err := f.query.GetCategoryStats(ctx)
	require.NoError(t, err)

	categories, err := f.query.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, stats, len(categories))

	assert.Equal(t, []domain.CategoryStats{
		{CategoryID: books.ID, CategoryName: "Books", ProductCount: 1},
		{CategoryID: empty.ID, CategoryName: "Empty", ProductCount: 0},
	}, stats)
}

func TestCategoryStatsOnEmptyCatalog(t *testing.T) {
	f := newFixture(t, nil)

	stats, err := f.query.GetCategoryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryStats{}, stats)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Books", Description: ptr("Reading")})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Books"})
	assert.ErrorIs(t, err, catalog.ErrConflict)

	// Names are compared exactly.
	_, err = f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "books"})
	assert.NoError(t, err)
}

func TestCreateCategoryValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: ""})
	assert.ErrorIs(t, err, catalog.ErrValidation)

	_, err = f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: strings.Repeat("x", 51)})
	assert.ErrorIs(t, err, catalog.ErrValidation)

	_, err = f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: strings.Repeat("я", 50)})
	assert.NoError(t, err)
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	books, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Books", Description: ptr("old")})
	require.NoError(t, err)
	games, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Games"})
	require.NoError(t, err)

	t.Run("own name succeeds", func(t *testing.T) {
		updated, err := f.admin.UpdateCategory(ctx, books.ID, catalog.CategoryRequest{Name: "Books", Description: ptr("new")})
		require.NoError(t, err)
		assert.Equal(t, "new", *updated.Description)
		assert.Equal(t, books.CreatedAt.Unix(), updated.CreatedAt.Unix())
	})

	t.Run("other category's name conflicts", func(t *testing.T) {
		_, err := f.admin.UpdateCategory(ctx, games.ID, catalog.CategoryRequest{Name: "Books"})
		assert.ErrorIs(t, err, catalog.ErrConflict)
	})

	t.Run("description is replaced, not merged", func(t *testing.T) {
		updated, err := f.admin.UpdateCategory(ctx, books.ID, catalog.CategoryRequest{Name: "Literature"})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)

		got, err := f.query.GetCategory(ctx, books.ID)
		require.NoError(t, err)
		assert.Equal(t, "Literature", got.Name)
		assert.Nil(t, got.Description)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := f.admin.UpdateCategory(ctx, 999, catalog.CategoryRequest{Name: "X"})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestDeleteCategoryGuardedByProducts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	books, guide := booksFixture(t, f)

	err := f.admin.DeleteCategory(ctx, books.ID)
	assert.ErrorIs(t, err, catalog.ErrConflict)

	require.NoError(t, f.admin.DeleteProduct(ctx, guide.ID))
	require.NoError(t, f.admin.DeleteCategory(ctx, books.ID))

	_, err = f.query.GetCategory(ctx, books.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDeleteCategoryAfterReassigningProducts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	books, guide := booksFixture(t, f)

	games, err := f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: "Games"})
	require.NoError(t, err)

	_, err = f.admin.UpdateProduct(ctx, guide.ID, catalog.ProductRequest{
		Name:       guide.Name,
		Price:      &guide.Price,
		CategoryID: &games.ID,
	})
	require.NoError(t, err)

	assert.NoError(t, f.admin.DeleteCategory(ctx, books.ID))
}

func TestDeleteCategoryNotFound(t *testing.T) {
	f := newFixture(t, nil)

	err := f.admin.DeleteCategory(context.Background(), 999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCreateProductDefaultsAndJoin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	loose, err := f.admin.CreateProduct(ctx, catalog.ProductRequest{Name: "Loose", Price: ptr(decimal.Zero)})
	require.NoError(t, err)
	assert.True(t, loose.InStock, "in_stock defaults to true")
	assert.Nil(t, loose.Category)
	assert.False(t, loose.CreatedAt.IsZero())

	out, err := f.admin.CreateProduct(ctx, catalog.ProductRequest{Price: price("1"), Name: "Out", InStock: ptr(false)})
	require.NoError(t, err)
	assert.False(t, out.InStock)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  catalog.ProductRequest
	}{
		{"empty name", catalog.ProductRequest{Name: "", Price: price("1")}},
		{"name too long", catalog.ProductRequest{Name: strings.Repeat("x", 101), Price: price("1")}},
		{"missing price", catalog.ProductRequest{Name: "x"}},
		{"negative price", catalog.ProductRequest{Name: "x", Price: price("-0.01")}},
		{"image url too long", catalog.ProductRequest{Name: "x", Price: price("1"), ImageURL: ptr(strings.Repeat("u", 201))}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.admin.CreateProduct(ctx, tc.req)
			assert.ErrorIs(t, err, catalog.ErrValidation)
		})
	}
}

// Known gap: CreateProduct does not look the category up before inserting.
// The only guard is the store's foreign key, so the failure surfaces as a
// storage constraint error rather than a category not-found.
func TestCreateProductDoesNotPrecheckCategory(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.admin.CreateProduct(context.Background(), catalog.ProductRequest{Price: price("1"), Name: "Orphan", CategoryID: ptr(int64(404))})

	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorIs(t, err, catalog.ErrReferenced)
	assert.Empty(t, f.published.Names())
}

func TestUpdateProductOverwritesAllFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, guide := booksFixture(t, f)

	updated, err := f.admin.UpdateProduct(ctx, guide.ID, catalog.ProductRequest{
		Name:  "Go Guide 2nd ed.",
		Price: price("19.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, guide.ID, updated.ID)
	assert.Equal(t, "Go Guide 2nd ed.", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("19.5")))
	assert.Nil(t, updated.CategoryID, "omitted category clears the reference")
	assert.Nil(t, updated.Category)
	assert.True(t, updated.InStock)
}

func TestUpdateProductNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.admin.UpdateProduct(context.Background(), 999, catalog.ProductRequest{Price: price("1"), Name: "x"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, guide := booksFixture(t, f)

	require.NoError(t, f.admin.DeleteProduct(ctx, guide.ID))

	_, err := f.query.GetProduct(ctx, guide.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	err = f.admin.DeleteProduct(ctx, guide.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSetProductStockAndImage(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	books, guide := booksFixture(t, f)

	out, err := f.admin.SetProductStock(ctx, guide.ID, false)
	require.NoError(t, err)
	assert.False(t, out.InStock)
	assert.Equal(t, books.ID, *out.CategoryID)

	withImage, err := f.admin.SetProductImage(ctx, guide.ID, "https://cdn.example.com/go.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/go.png", *withImage.ImageURL)
	assert.False(t, withImage.InStock)

	_, err = f.admin.SetProductStock(ctx, 999, true)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAdminProductOperationsConsultAuthorizer(t *testing.T) {
	denied := errors.New("not an admin")
	var seen []catalog.Caller
	authorizer := catalog.AuthorizerFunc(func(_ context.Context, caller catalog.Caller) error {
		seen = append(seen, caller)
		if caller.ID != "admin" {
			return denied
		}
		return nil
	})
	f := newFixture(t, authorizer)

	anonymous := context.Background()
	admin := catalog.WithCaller(context.Background(), catalog.Caller{ID: "admin"})

	_, err := f.admin.CreateProduct(anonymous, catalog.ProductRequest{Name: "x"})
	assert.ErrorIs(t, err, catalog.ErrForbidden)
	assert.ErrorIs(t, err, denied)

	created, err := f.admin.CreateProduct(admin, catalog.ProductRequest{Price: price("1"), Name: "x"})
	require.NoError(t, err)

	_, err = f.admin.UpdateProduct(anonymous, created.ID, catalog.ProductRequest{Name: "y"})
	assert.ErrorIs(t, err, catalog.ErrForbidden)

	err = f.admin.DeleteProduct(anonymous, created.ID)
	assert.ErrorIs(t, err, catalog.ErrForbidden)

	res, err := f.query.GetProducts(anonymous, 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total, "rejected calls leave the catalog untouched")
	assert.Len(t, seen, 4)
}

func TestDefaultAuthorizerAllowsAnonymousCallers(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.admin.CreateProduct(context.Background(), catalog.ProductRequest{Price: price("1"), Name: "x"})
	assert.NoError(t, err)
}

func TestMutationsPublishEvents(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	books, guide := booksFixture(t, f)

	_, err := f.admin.UpdateCategory(ctx, books.ID, catalog.CategoryRequest{Name: "Books"})
	require.NoError(t, err)
	_, err = f.admin.UpdateProduct(ctx, guide.ID, catalog.ProductRequest{Price: price("1"), Name: "Go Guide"})
	require.NoError(t, err)
	require.NoError(t, f.admin.DeleteProduct(ctx, guide.ID))
	require.NoError(t, f.admin.DeleteCategory(ctx, books.ID))

	// Failed mutations publish nothing.
	_, err = f.admin.CreateCategory(ctx, catalog.CategoryRequest{Name: ""})
	require.Error(t, err)

	assert.Equal(t, []string{
		events.CategoryCreatedEvent,
		events.ProductCreatedEvent,
		events.CategoryUpdatedEvent,
		events.ProductUpdatedEvent,
		events.ProductDeletedEvent,
		events.CategoryDeletedEvent,
	}, f.published.Names())

	published := f.published.Events()
	assert.Equal(t, events.CategoryExchange, published[0].Exchange)
	assert.Equal(t, events.ProductExchange, published[1].Exchange)
	payload, ok := published[1].Event.Payload.(events.ProductPayload)
	require.True(t, ok)
	assert.Equal(t, guide.ID, payload.ID)
}
