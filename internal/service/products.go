package service

import (
	"context"
	"encoding/json"
	"strings"

	"InflowEvaluator/internal/kpi"
	"InflowEvaluator/internal/model"
)

// Repo определяет интерфейс репозитория для операций с записями входящих товаров
// Реализация может быть на основе базы данных SQLite
type Repo interface {
	InsertProduct(ctx context.Context, p model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, f model.Filter) ([]model.Product, error)
}

// Publisher определяет интерфейс публикации событий аудита (NATS)
// Метод PublishEvent отправляет сообщение в брокер сообщений
type Publisher interface {
	PublishEvent(data []byte) error
}

// ValidationError возвращается при некорректных данных прямого создания записи
// На границе HTTP превращается в ответ 400
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ProductsService реализует бизнес-логику записей входящих товаров:
// - валидация входных данных при прямом создании
// - вызовы репозитория для вставки, удаления и выборки
// - вычисление KPI по выборке
// - публикация событий аудита в NATS (fire-and-forget)
type ProductsService struct {
	repo  Repo
	audit Publisher
}

// NewProductsService создаёт новый сервис записей входящих товаров
func NewProductsService(r Repo, a Publisher) *ProductsService {
	return &ProductsService{repo: r, audit: a}
}

// Create создаёт новую запись и возвращает её:
// 1. Обрезает пробелы у всех строковых полей
// 2. Валидирует обязательные поля (country, product_name, category не пустые)
// 3. Валидирует диапазон risk_level 1..5
// 4. Вставляет запись через репозиторий (created_at выставляется при вставке)
// 5. Публикует событие аудита "create"
func (s *ProductsService) Create(ctx context.Context, p model.Product) (*model.Product, error) {
	p.Country = strings.TrimSpace(p.Country)
	p.ProductName = strings.TrimSpace(p.ProductName)
	p.Category = strings.TrimSpace(p.Category)
	p.HSCode = strings.TrimSpace(p.HSCode)
	p.Notes = strings.TrimSpace(p.Notes)
	// валидация обязательных полей
	if p.Country == "" {
		return nil, &ValidationError{Msg: "missing country"}
	}
	if p.ProductName == "" {
		return nil, &ValidationError{Msg: "missing product_name"}
	}
	if p.Category == "" {
		return nil, &ValidationError{Msg: "missing category"}
	}
	// risk_level обязан лежать в [1,5] при прямом создании
	if p.RiskLevel < 1 || p.RiskLevel > 5 {
		return nil, &ValidationError{Msg: "risk_level must be 1..5"}
	}
	created, err := s.repo.InsertProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.publish("create", *created)
	return created, nil
}

// List возвращает отфильтрованную выборку и KPI по ней:
// 1. Выбирает записи через репозиторий (сортировка по created_at desc)
// 2. Пересчитывает агрегаты по выборке (O(n), без кэша агрегатов)
// Пустая выборка — не ошибка, KPI нулевые
func (s *ProductsService) List(ctx context.Context, f model.Filter) ([]model.Product, model.KPI, error) {
	rows, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return nil, model.KPI{}, err
	}
	return rows, kpi.Compute(rows), nil
}

// Delete удаляет запись по id:
// 1. Вызывает идемпотентное удаление в репозитории
// 2. Публикует событие аудита "delete" (известен только id)
// Удаление отсутствующего id также считается успехом
func (s *ProductsService) Delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.publish("delete", model.Product{ID: id})
	return nil
}

// ExportAll возвращает полный набор записей без фильтра для выгрузки
func (s *ProductsService) ExportAll(ctx context.Context) ([]model.Product, error) {
	return s.repo.ListProducts(ctx, model.Filter{})
}

// publish сериализует и отправляет событие аудита
// Ошибки публикации не влияют на результат операции
func (s *ProductsService) publish(action string, p model.Product) {
	data, _ := json.Marshal(model.AuditEvent{Action: action, Product: p})
	_ = s.audit.PublishEvent(data)
}
