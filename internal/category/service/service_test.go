package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voozea/voozea/internal/category/domain"
	"github.com/voozea/voozea/internal/category/repository"
	"github.com/voozea/voozea/internal/clock"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Category{}))
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE businesses (id INTEGER PRIMARY KEY, business_type_id INTEGER)`,
	).Error)
	require.NoError(t, dbConn.Exec(
		`CREATE TABLE products (id INTEGER PRIMARY KEY, category_id INTEGER)`,
	).Error)

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	svc := New(Params{
		DB:    dbConn,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Repo:  repository.New(dbConn),
		Clock: clock.NewFakeClock(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)),
	})
	return &testEnv{svc: svc, db: dbConn, node: node}
}

func TestCreateCategorySlugAndTypeScoping(t *testing.T) {
	env := newTestEnv(t)

	business, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee Shop", CategoryType: domain.TypeBusiness,
	})
	require.NoError(t, err)
	assert.Equal(t, "coffee-shop", business.Slug)

	// The same slug is fine in the other tree.
	product, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee Shop", CategoryType: domain.TypeProduct,
	})
	require.NoError(t, err)
	assert.Equal(t, business.Slug, product.Slug)

	_, err = env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee Shop", CategoryType: domain.TypeBusiness,
	})
	assert.ErrorIs(t, err, domain.ErrCategorySlugTaken)
}

func TestCreateCategoryParentMustMatchType(t *testing.T) {
	env := newTestEnv(t)

	business, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Food & Drink", CategoryType: domain.TypeBusiness,
	})
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Espresso", CategoryType: domain.TypeProduct, ParentID: &business.ID,
	})
	assert.ErrorIs(t, err, domain.ErrParentTypeMismatch)

	child, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Cafe", CategoryType: domain.TypeBusiness, ParentID: &business.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, business.ID, *child.ParentID)
}

func TestDefaultProductCategoryRules(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee", CategoryType: domain.TypeProduct,
	})
	require.NoError(t, err)

	// A product category cannot carry a default; a business type cannot point
	// at another business type.
	_, err = env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Espresso", CategoryType: domain.TypeProduct, DefaultProductCategoryID: &product.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDefaultNotProduct)

	business, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Cafe", CategoryType: domain.TypeBusiness, DefaultProductCategoryID: &product.ID,
	})
	require.NoError(t, err)

	_, err = env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Bakery", CategoryType: domain.TypeBusiness, DefaultProductCategoryID: &business.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDefaultNotProduct)
}

func TestCreateCategorySchemaOnlyOnProductType(t *testing.T) {
	env := newTestEnv(t)
	schema := datatypes.JSON(`[{"key":"abv","label":"ABV","type":"number"}]`)

	_, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Brewery", CategoryType: domain.TypeBusiness, AttributeSchema: schema,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAttributeSchema)

	_, err = env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Beer", CategoryType: domain.TypeProduct, AttributeSchema: datatypes.JSON(`[{`),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAttributeSchema)

	created, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Beer", CategoryType: domain.TypeProduct, AttributeSchema: schema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, string(schema), string(created.AttributeSchema))
}

func TestDeleteGuardOrder(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee", CategoryType: domain.TypeProduct,
	})
	require.NoError(t, err)
	businessType, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Cafe", CategoryType: domain.TypeBusiness, DefaultProductCategoryID: &product.ID,
	})
	require.NoError(t, err)

	// Referenced by a business row.
	require.NoError(t, env.db.Exec(
		`INSERT INTO businesses (id, business_type_id) VALUES (1, ?)`, businessType.ID,
	).Error)
	assert.ErrorIs(t, env.svc.Delete(context.Background(), businessType.ID), domain.ErrCategoryHasBusinesses)
	require.NoError(t, env.db.Exec(`DELETE FROM businesses`).Error)

	// Referenced by a product row.
	require.NoError(t, env.db.Exec(
		`INSERT INTO products (id, category_id) VALUES (1, ?)`, product.ID,
	).Error)
	assert.ErrorIs(t, env.svc.Delete(context.Background(), product.ID), domain.ErrCategoryHasProducts)
	require.NoError(t, env.db.Exec(`DELETE FROM products`).Error)

	// Default of a business type; the error names the blocking category.
	err = env.svc.Delete(context.Background(), product.ID)
	require.ErrorIs(t, err, domain.ErrCategoryIsDefault)
	assert.Contains(t, err.Error(), "Cafe")

	// Children block the parent.
	child, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee Truck", CategoryType: domain.TypeBusiness, ParentID: &businessType.ID,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, env.svc.Delete(context.Background(), businessType.ID), domain.ErrCategoryHasChildren)

	// With every reference gone the delete succeeds.
	require.NoError(t, env.svc.Delete(context.Background(), child.ID))
	require.NoError(t, env.svc.Delete(context.Background(), businessType.ID))
	require.NoError(t, env.svc.Delete(context.Background(), product.ID))

	_, err = env.svc.Get(context.Background(), product.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestUpdateCategoryRename(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), domain.CreateCategoryRequest{
		Name: "Coffee", CategoryType: domain.TypeProduct,
	})
	require.NoError(t, err)

	name := "Specialty Coffee"
	updated, err := env.svc.Update(context.Background(), domain.UpdateCategoryRequest{
		CategoryID: created.ID, Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "specialty-coffee", updated.Slug)

	found, err := env.svc.GetBySlug(context.Background(), domain.TypeProduct, "specialty-coffee")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
