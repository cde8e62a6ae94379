// Пакет export сериализует полный набор записей в CSV и JSON для выгрузки
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"InflowEvaluator/internal/model"
)

// csvHeader задаёт порядок столбцов выгрузки (порядок схемы плюс id и created_at)
var csvHeader = []string{
	"id", "country", "product_name", "category", "hs_code",
	"quantity", "declared_value", "risk_level", "notes", "created_at",
}

// WriteCSV записывает набор записей в CSV по RFC 4180:
// заголовок, затем по строке на запись; значения с запятыми и кавычками
// экранируются самим encoding/csv
func WriteCSV(w io.Writer, rows []model.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range rows {
		record := []string{
			strconv.Itoa(p.ID),
			p.Country,
			p.ProductName,
			p.Category,
			p.HSCode,
			strconv.Itoa(p.Quantity),
			strconv.FormatFloat(p.DeclaredValue, 'f', -1, 64),
			strconv.Itoa(p.RiskLevel),
			p.Notes,
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// MarshalJSON сериализует набор записей в pretty-printed JSON
// со стабильными именами полей модели
func MarshalJSON(rows []model.Product) ([]byte, error) {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal products: %w", err)
	}
	return data, nil
}
