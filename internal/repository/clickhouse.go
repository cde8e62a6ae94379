package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"InflowEvaluator/internal/model"
)

// ClickhouseRepo реализует пакетную запись событий аудита в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertEvents записывает пакет событий аудита в таблицу products_audit
// Событие содержит действие, данные записи Product и время вставки как EventTime
func (r *ClickhouseRepo) BatchInsertEvents(ctx context.Context, events []model.AuditEvent) error {
	// начинаем 'транзакцию' для batch insert (clickhouse-go собирает блок при PrepareContext)
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	// логируем количество событий для вставки
	log.Printf("Начало пакетной вставки %d событий аудита в ClickHouse", len(events))
	// PrepareContext для одной строки; clickhouse-go будет собирать несколько Exec в один блок
	query := `INSERT INTO products_audit (Action, Id, Country, ProductName, Category, HsCode, Quantity, DeclaredValue, RiskLevel, EventTime) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	// выполняем ExecContext для каждого события; драйвер соберёт весь пакет
	for _, e := range events {
		p := e.Product
		_, err := stmt.ExecContext(ctx,
			e.Action, p.ID, p.Country, p.ProductName, p.Category,
			p.HSCode, p.Quantity, p.DeclaredValue, p.RiskLevel,
			time.Now(),
		)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	// коммитим транзакцию
	if err := tx.Commit(); err != nil {
		return err
	}
	// логируем успешную вставку
	log.Printf("Успешно вставлено %d событий аудита в ClickHouse", len(events))
	return nil
}
