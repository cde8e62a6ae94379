package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"InflowEvaluator/internal/model"
)

// ImportCSV выполняет пакетный импорт записей из CSV с заголовком:
// 1. Читает заголовок и сопоставляет распознанные столбцы
//    (country, product_name, category, hs_code, quantity, declared_value, risk_level, notes);
//    лишние столбцы игнорируются, отсутствующие берут значения по умолчанию
// 2. Для каждой строки приводит quantity к int (0 для пустого),
//    declared_value к float (0.0 для пустого), risk_level к int (1 для пустого)
// 3. risk_level зажимается в диапазон [1,5]
// 4. Строка с ошибкой приведения или вставки пропускается, импорт продолжается
// 5. created_at присваивается при вставке, значения из файла не используются
// Возвращает количество успешно вставленных строк; отчёт по ошибкам строк не формируется
func (s *ProductsService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	// строки могут иметь разное число полей, выравниваем по заголовку сами
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		// пустой или нечитаемый файл: вставлять нечего
		return 0, nil
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	inserted := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// некорректная строка CSV пропускается
			continue
		}
		p := model.Product{
			Country:     field(record, "country"),
			ProductName: field(record, "product_name"),
			Category:    field(record, "category"),
			HSCode:      field(record, "hs_code"),
			Notes:       field(record, "notes"),
		}
		if v := field(record, "quantity"); v != "" {
			q, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			p.Quantity = q
		}
		if v := field(record, "declared_value"); v != "" {
			dv, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			p.DeclaredValue = dv
		}
		p.RiskLevel = 1
		if v := field(record, "risk_level"); v != "" {
			rl, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			p.RiskLevel = rl
		}
		p.RiskLevel = clampRisk(p.RiskLevel)
		created, err := s.repo.InsertProduct(ctx, p)
		if err != nil {
			// неудачная вставка не прерывает импорт
			continue
		}
		inserted++
		s.publish("import", *created)
	}
	return inserted, nil
}

// clampRisk зажимает уровень риска в допустимый диапазон [1,5]
func clampRisk(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}
