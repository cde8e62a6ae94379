// Пакет repository содержит unit-тесты для реализации слоя доступа к данным ProductRepository
package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"InflowEvaluator/internal/model"
)

// ptr возвращает указатель на строку (хелпер для фильтров)
func ptr(s string) *string { return &s }

// intPtr возвращает указатель на int
func intPtr(i int) *int { return &i }

// Тест вставки записи: проверяем успешную вставку и присвоение id через LastInsertId
func TestInsertProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()

	// успешный сценарий
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products(country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at)")).
		WithArgs("Nepal", "Rice", "Food & Beverages", "1006.30", 500, 75000.0, 2, "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	p, err := repo.InsertProduct(ctx, model.Product{
		Country:       "Nepal",
		ProductName:   "Rice",
		Category:      "Food & Beverages",
		HSCode:        "1006.30",
		Quantity:      500,
		DeclaredValue: 75000.0,
		RiskLevel:     2,
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if p.ID != 7 {
		t.Errorf("expected assigned id 7, got %d", p.ID)
	}
	// created_at должен быть выставлен на сервере в UTC
	if p.CreatedAt.IsZero() || p.CreatedAt.Location() != time.UTC {
		t.Error("expected server-side UTC created_at")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestInsertProduct_Error: проверяем, что при ошибке INSERT возвращается соответствующая ошибка
func TestInsertProduct_Error(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()
	mockErr := errors.New("insert failed")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO products(country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at)")).
		WillReturnError(mockErr)
	_, err := repo.InsertProduct(ctx, model.Product{Country: "India", ProductName: "Phones", Category: "Electronics", RiskLevel: 3})
	if err == nil || !strings.Contains(err.Error(), mockErr.Error()) {
		t.Errorf("expected insert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// Тест удаления записи:
// 1) Успешное удаление существующего id
// 2) Удаление отсутствующего id (0 строк) также проходит без ошибки — идемпотентность
func TestDeleteProduct(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()

	// успешный сценарий
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id=?")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.DeleteProduct(ctx, 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// отсутствующий id: 0 затронутых строк, ошибки нет
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id=?")).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.DeleteProduct(ctx, 999); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestDeleteProduct_Error: проверяем прокидку ошибки Exec при удалении
func TestDeleteProduct_Error(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id=?")).
		WithArgs(1).
		WillReturnError(errors.New("locked"))
	err := repo.DeleteProduct(ctx, 1)
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Errorf("expected delete error, got %v", err)
	}
}

// Тест выборки без фильтра: запрос не содержит дополнительных условий
// и сортируется по created_at по убыванию
func TestListProducts_NoFilter(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()

	columns := []string{"id", "country", "product_name", "category", "hs_code", "quantity", "declared_value", "risk_level", "notes", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at FROM products WHERE 1=1 ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "China", "Phones", "Electronics", "8517.12", 100, 500000.0, 4, "", time.Now()).
			AddRow(1, "India", "Rice", "Food & Beverages", "", 500, 75000.0, 2, "bulk", time.Now().Add(-time.Hour)))

	products, err := repo.ListProducts(ctx, model.Filter{})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(products) != 2 || products[0].ID != 2 || products[1].Country != "India" {
		t.Error("unexpected list result")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// Тест выборки с полным фильтром: условия добавляются конъюнкцией
// в порядке country, category, risk_level >=, risk_level <=
func TestListProducts_FullFilter(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()

	columns := []string{"id", "country", "product_name", "category", "hs_code", "quantity", "declared_value", "risk_level", "notes", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at FROM products WHERE 1=1 AND country = ? AND category = ? AND risk_level >= ? AND risk_level <= ? ORDER BY created_at DESC")).
		WithArgs("China", "Electronics", 4, 5).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(5, "China", "Drones", "Electronics", "", 10, 90000.0, 5, "", time.Now()))

	f := model.Filter{Country: ptr("China"), Category: ptr("Electronics"), RiskMin: intPtr(4), RiskMax: intPtr(5)}
	products, err := repo.ListProducts(ctx, f)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].RiskLevel != 5 {
		t.Error("unexpected filtered result")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestListProducts_Empty: пустая выборка возвращает пустой срез, а не nil-ошибку
func TestListProducts_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()

	columns := []string{"id", "country", "product_name", "category", "hs_code", "quantity", "declared_value", "risk_level", "notes", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at FROM products WHERE 1=1 ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(columns))

	products, err := repo.ListProducts(ctx, model.Filter{})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", products)
	}
}

// TestListProducts_QueryError: проверяем прокидку произвольной ошибки при SELECT
func TestListProducts_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := NewProductRepository(db)
	ctx := context.Background()
	mockErr := errors.New("timeout")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at FROM products WHERE 1=1 ORDER BY created_at DESC")).
		WillReturnError(mockErr)
	_, err := repo.ListProducts(ctx, model.Filter{})
	if err == nil || !strings.Contains(err.Error(), mockErr.Error()) {
		t.Errorf("expected query error, got %v", err)
	}
}
