package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "slug", "category", "price", "status", "featured"}).
			AddRow(productID, "Cà Phê Sữa Đá", "ca-phe-sua-da", "coffee", decimal.NewFromInt(50000), "available", true)

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "ca-phe-sua-da", product.Slug)
		assert.Equal(t, catalog.CategoryCoffee, product.Category)
		assert.Equal(t, int64(50000), product.Price.IntPart())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindBySlug(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	productID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "name", "slug", "category", "price", "status"}).
		AddRow(productID, "Trà Đào", "tra-dao", "tea", decimal.NewFromInt(35000), "available")

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE slug = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("tra-dao", 1).
		WillReturnRows(rows)

	product, err := repo.FindBySlug(context.Background(), "tra-dao")

	require.NoError(t, err)
	assert.Equal(t, productID, product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_FindFeatured(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "category", "price", "status", "featured"}).
		AddRow(uuid.New(), "Cold Brew", "cold-brew", "coffee", decimal.NewFromInt(55000), "available", true).
		AddRow(uuid.New(), "Croissant", "croissant", "pastry", decimal.NewFromInt(30000), "available", true)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE featured = \$1 AND status = \$2 ORDER BY .*`).
		WithArgs(true, "available", 4).
		WillReturnRows(rows)

	products, err := repo.FindFeatured(context.Background(), 4)

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_ExistsBySlug(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE slug = \$1`).
		WithArgs("espresso").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBySlug(context.Background(), "espresso")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), productID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, shared.ErrNotFound, repo.Delete(context.Background(), productID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
