package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"InflowEvaluator/internal/export"
	"InflowEvaluator/internal/model"
	"InflowEvaluator/internal/service"
)

// ProductsService задаёт интерфейс бизнес-логики для HTTP-слоя, используемый хендлером
type ProductsService interface {
	Create(ctx context.Context, p model.Product) (*model.Product, error)
	List(ctx context.Context, f model.Filter) ([]model.Product, model.KPI, error)
	Delete(ctx context.Context, id int) error
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	ExportAll(ctx context.Context) ([]model.Product, error)
}

// CountryLookup задаёт интерфейс клиента обогащения метаданными стран
type CountryLookup interface {
	Lookup(ctx context.Context, name string) (*model.CountryInfo, error)
}

// Handler содержит зависимости и реализует HTTP-эндпоинты дашборда входящих товаров
type Handler struct {
	srv     ProductsService
	country CountryLookup
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(srv ProductsService, country CountryLookup) *Handler {
	return &Handler{srv: srv, country: country}
}

// RegisterRoutes регистрирует маршруты API
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Эндпоинты для проверки здоровья и готовности сервиса
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")
	r.HandleFunc("/api/country", h.Country).Methods("GET")
	r.HandleFunc("/api/products", h.List).Methods("GET")
	r.HandleFunc("/api/products", h.Create).Methods("POST")
	r.HandleFunc("/api/upload_csv", h.UploadCSV).Methods("POST")
	r.HandleFunc("/api/products/{id:[0-9]+}", h.Delete).Methods("DELETE")
	r.HandleFunc("/export.csv", h.ExportCSV).Methods("GET")
	r.HandleFunc("/export.json", h.ExportJSON).Methods("GET")
}

// writeError отправляет клиенту тело вида {"error": "..."} с заданным статусом
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Country обрабатывает GET /api/country
// 1. Требует непустой параметр name (400 при отсутствии)
// 2. Вызывает клиент обогащения; любая неудача поиска — единый ответ 404 not found
// 3. При успехе возвращает нормализованный объект страны
func (h *Handler) Country(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	info, err := h.country.Lookup(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, info)
}

// List обрабатывает GET /api/products
// 1. Собирает фильтр из query-параметров: country, category — точное совпадение,
//    risk_min, risk_max — границы диапазона риска
// 2. Некорректный числовой фильтр отклоняется с 400, без тихого приведения к нулю
// 3. Возвращает {items, kpis}; пустая выборка — не ошибка, KPI нулевые
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f model.Filter
	if v := r.URL.Query().Get("country"); v != "" {
		f.Country = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		f.Category = &v
	}
	if v := r.URL.Query().Get("risk_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid risk_min")
			return
		}
		f.RiskMin = &n
	}
	if v := r.URL.Query().Get("risk_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid risk_max")
			return
		}
		f.RiskMax = &n
	}
	items, kpis, err := h.srv.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{"items": items, "kpis": kpis})
}

// Create обрабатывает POST /api/products
// 1. Декодирует JSON-тело, проверяет присутствие обязательных ключей
// 2. Приводит числовые поля (число или числовая строка), 400 при неудаче
// 3. Вызывает сервис Create; ValidationError превращается в 400
// 4. При успехе возвращает {"status": "ok"}
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for _, key := range []string{"country", "product_name", "category", "quantity", "declared_value", "risk_level"} {
		if _, ok := data[key]; !ok {
			writeError(w, http.StatusBadRequest, "missing "+key)
			return
		}
	}
	quantity, err1 := toInt(data["quantity"])
	declaredValue, err2 := toFloat(data["declared_value"])
	riskLevel, err3 := toInt(data["risk_level"])
	if err1 != nil || err2 != nil || err3 != nil {
		writeError(w, http.StatusBadRequest, "invalid numeric fields")
		return
	}
	p := model.Product{
		Country:       toString(data["country"]),
		ProductName:   toString(data["product_name"]),
		Category:      toString(data["category"]),
		HSCode:        toString(data["hs_code"]),
		Quantity:      quantity,
		DeclaredValue: declaredValue,
		RiskLevel:     riskLevel,
		Notes:         toString(data["notes"]),
	}
	if _, err := h.srv.Create(r.Context(), p); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Msg)
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// UploadCSV обрабатывает POST /api/upload_csv
// 1. Требует multipart-поле file (400 при отсутствии)
// 2. Передаёт содержимое импортёру; строки с ошибками пропускаются внутри
// 3. Возвращает {"status": "ok", "inserted": N}
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()
	inserted, err := h.srv.ImportCSV(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{"status": "ok", "inserted": inserted})
}

// Delete обрабатывает DELETE /api/products/{id}
// Удаление идемпотентно: отсутствующий id тоже отвечает {"status": "deleted"}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.srv.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// ExportCSV обрабатывает GET /export.csv
// Выгружает полный набор записей как вложение dataset.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.srv.ExportAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=dataset.csv")
	_ = export.WriteCSV(w, rows)
}

// ExportJSON обрабатывает GET /export.json
// Выгружает полный набор записей как вложение dataset.json
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := h.srv.ExportAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	data, err := export.MarshalJSON(rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=dataset.json")
	_, _ = w.Write(data)
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// toString возвращает строковое значение JSON-поля или пустую строку
func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// toInt приводит значение JSON-поля к int: число или числовая строка
func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(n)
	default:
		return 0, errors.New("not a number")
	}
}

// toFloat приводит значение JSON-поля к float64: число или числовая строка
func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, errors.New("not a number")
	}
}
