package model

import "time"

// Product представляет запись входящего товара (таблица products)
// RiskLevel — целочисленная оценка риска от 1 (низкий) до 5 (высокий)
type Product struct {
	ID            int       `db:"id" json:"id"`
	Country       string    `db:"country" json:"country"`
	ProductName   string    `db:"product_name" json:"product_name"`
	Category      string    `db:"category" json:"category"`
	HSCode        string    `db:"hs_code" json:"hs_code"`
	Quantity      int       `db:"quantity" json:"quantity"`
	DeclaredValue float64   `db:"declared_value" json:"declared_value"`
	RiskLevel     int       `db:"risk_level" json:"risk_level"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Filter описывает необязательные условия выборки записей
// nil-поле означает отсутствие ограничения по этому полю
type Filter struct {
	Country  *string
	Category *string
	RiskMin  *int
	RiskMax  *int
}

// TopEntry представляет пару (имя группы, суммарная declared_value)
// Используется для топ-10 стран и категорий
type TopEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// KPI представляет агрегированные показатели по выборке записей
// RiskDistribution всегда содержит все пять ключей 1..5
type KPI struct {
	TotalValue       float64     `json:"total_value"`
	TotalQuantity    int         `json:"total_quantity"`
	AvgRisk          float64     `json:"avg_risk"`
	TopCountries     []TopEntry  `json:"top_countries"`
	TopCategories    []TopEntry  `json:"top_categories"`
	RiskDistribution map[int]int `json:"risk_distribution"`
}

// CountryInfo представляет нормализованные метаданные страны из внешнего API
// Необязательные поля (Capital, Currencies, FlagPNG) — указатели, отсутствие = null
type CountryInfo struct {
	Name       string  `json:"name"`
	Region     string  `json:"region"`
	Population int64   `json:"population"`
	Capital    *string `json:"capital"`
	Currencies *string `json:"currencies"`
	FlagPNG    *string `json:"flag_png"`
	CCA2       string  `json:"cca2"`
}

// AuditEvent представляет событие изменения записи для журнала аудита
// Action — "create", "delete" или "import"
type AuditEvent struct {
	Action  string  `json:"action"`
	Product Product `json:"product"`
}
