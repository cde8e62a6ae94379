package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"InflowEvaluator/internal/model"
)

// productColumns перечисляет столбцы таблицы products в порядке схемы
const productColumns = `id, country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at`

// ProductRepository реализует доступ к таблице products (SQLite)
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository создает новый репозиторий записей входящих товаров
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// InsertProduct добавляет новую запись в таблицу products
// created_at выставляется на сервере в UTC перед вставкой и больше не меняется
// Возвращает запись с присвоенным id
func (r *ProductRepository) InsertProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	p.CreatedAt = time.Now().UTC()
	query := `INSERT INTO products(country, product_name, category, hs_code, quantity, declared_value, risk_level, notes, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.Country, p.ProductName, p.Category, p.HSCode,
		p.Quantity, p.DeclaredValue, p.RiskLevel, p.Notes, p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}
	p.ID = int(id)
	return &p, nil
}

// DeleteProduct удаляет запись по id
// Операция идемпотентна: удаление отсутствующего id не является ошибкой
func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListProducts возвращает записи, удовлетворяющие фильтру, отсортированные по created_at по убыванию
// Отсутствующие поля фильтра не накладывают ограничений; сравнение строк точное
func (r *ProductRepository) ListProducts(ctx context.Context, f model.Filter) ([]model.Product, error) {
	// собираем конъюнкцию условий динамически
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var params []interface{}
	if f.Country != nil {
		query += ` AND country = ?`
		params = append(params, *f.Country)
	}
	if f.Category != nil {
		query += ` AND category = ?`
		params = append(params, *f.Category)
	}
	if f.RiskMin != nil {
		query += ` AND risk_level >= ?`
		params = append(params, *f.RiskMin)
	}
	if f.RiskMax != nil {
		query += ` AND risk_level <= ?`
		params = append(params, *f.RiskMax)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()
	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Country, &p.ProductName, &p.Category, &p.HSCode,
			&p.Quantity, &p.DeclaredValue, &p.RiskLevel, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}
