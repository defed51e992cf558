package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/agamariel/catering/internal/storage"
)

var _ = Describe("SQLCatalogStorage", func() {
	var (
		db      *sql.DB
		mock    sqlmock.Sqlmock
		catalog *storage.SQLCatalogStorage
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, mock, err = sqlmock.New()
		Expect(err).ShouldNot(HaveOccurred())

		catalog, err = storage.NewSQLCatalogStorage(db, "menu_items")
		Expect(err).ShouldNot(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).ShouldNot(HaveOccurred())
		db.Close()
	})

	Context("construction", func() {
		It("rejects table names that are not identifiers", func() {
			_, err := storage.NewSQLCatalogStorage(db, "menu_items; DROP TABLE users")
			Expect(errors.Is(err, storage.ErrInvalidCatalogTable)).To(BeTrue())
		})

		It("keeps the configured priority order", func() {
			list, err := storage.NewSQLCatalogStorages(db, storage.DefaultCatalogTables)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].Name()).To(Equal("menu_items"))
			Expect(list[1].Name()).To(Equal("products"))
			Expect(list[2].Name()).To(Equal("items"))
		})

		It("folds mixed-case names the way unquoted identifiers are folded", func() {
			products, err := storage.NewSQLCatalogStorage(db, "Products")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(products.Name()).To(Equal("products"))

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT to_regclass($1) IS NOT NULL`)).WithArgs("products").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT id::text, price FROM "products" WHERE id::text IN ($1)`)).WithArgs("A").
				WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).AddRow("A", "3.20"))

			ok, err := products.Available(ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(ok).To(BeTrue())

			prices, err := products.PricesByIDs(ctx, []string{"A"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(prices["A"].Equal(decimal.RequireFromString("3.20"))).To(BeTrue())
		})
	})

	Context("Available", func() {
		probe := regexp.QuoteMeta(`SELECT to_regclass($1) IS NOT NULL`)

		It("reports an existing table", func() {
			mock.ExpectQuery(probe).WithArgs("menu_items").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

			ok, err := catalog.Available(ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("reports a missing table", func() {
			mock.ExpectQuery(probe).WithArgs("menu_items").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

			ok, err := catalog.Available(ctx)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("propagates probe failures", func() {
			mock.ExpectQuery(probe).WithArgs("menu_items").
				WillReturnError(errors.New("connection refused"))

			_, err := catalog.Available(ctx)
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("PricesByIDs", func() {
		query := regexp.QuoteMeta(`SELECT id::text, price FROM "menu_items" WHERE id::text IN ($1, $2)`)

		It("loads prices in one batched query", func() {
			mock.ExpectQuery(query).WithArgs("A", "B").
				WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).AddRow("A", "7.50"))

			prices, err := catalog.PricesByIDs(ctx, []string{"A", "B"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(prices).To(HaveLen(1))
			Expect(prices["A"].Equal(decimal.RequireFromString("7.50"))).To(BeTrue())
			Expect(prices).NotTo(HaveKey("B"))
		})

		It("skips the query for an empty id list", func() {
			prices, err := catalog.PricesByIDs(ctx, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(prices).To(BeEmpty())
		})

		It("propagates query failures", func() {
			mock.ExpectQuery(query).WithArgs("A", "B").
				WillReturnError(errors.New("some error"))

			_, err := catalog.PricesByIDs(ctx, []string{"A", "B"})
			Expect(err).Should(HaveOccurred())
		})
	})
})
