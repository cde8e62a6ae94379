// Пакет kpi вычисляет агрегированные показатели по выборке записей входящих товаров
package kpi

import (
	"math"
	"sort"

	"InflowEvaluator/internal/model"
)

// topLimit ограничивает длину рейтингов стран и категорий
const topLimit = 10

// Compute вычисляет показатели по переданной выборке:
// 1. Суммы declared_value и quantity (0 для пустой выборки)
// 2. Средний risk_level с округлением до 2 знаков (0.0 для пустой выборки, без деления на ноль)
// 3. Топ-10 стран и категорий по суммарной declared_value, по убыванию,
//    при равенстве значений сохраняется порядок первого появления
// 4. Гистограмму risk_level: все пять ключей 1..5 присутствуют всегда
// Пересчёт выполняется на каждый запрос списка, кэша агрегатов нет
func Compute(rows []model.Product) model.KPI {
	k := model.KPI{
		TopCountries:     []model.TopEntry{},
		TopCategories:    []model.TopEntry{},
		RiskDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	byCountry := map[string]float64{}
	byCategory := map[string]float64{}
	// порядок первого появления для стабильной сортировки
	var countryOrder, categoryOrder []string
	var riskSum int
	for _, r := range rows {
		k.TotalValue += r.DeclaredValue
		k.TotalQuantity += r.Quantity
		riskSum += r.RiskLevel
		if _, ok := byCountry[r.Country]; !ok {
			countryOrder = append(countryOrder, r.Country)
		}
		byCountry[r.Country] += r.DeclaredValue
		if _, ok := byCategory[r.Category]; !ok {
			categoryOrder = append(categoryOrder, r.Category)
		}
		byCategory[r.Category] += r.DeclaredValue
		if r.RiskLevel >= 1 && r.RiskLevel <= 5 {
			k.RiskDistribution[r.RiskLevel]++
		}
	}
	k.TotalValue = round2(k.TotalValue)
	if len(rows) > 0 {
		k.AvgRisk = round2(float64(riskSum) / float64(len(rows)))
	}
	k.TopCountries = top(byCountry, countryOrder)
	k.TopCategories = top(byCategory, categoryOrder)
	return k
}

// top собирает рейтинг групп по суммарному значению, не длиннее topLimit
func top(sums map[string]float64, order []string) []model.TopEntry {
	entries := make([]model.TopEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, model.TopEntry{Name: name, Value: sums[name]})
	}
	// стабильная сортировка: при равных суммах остаётся порядок первого появления
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if len(entries) > topLimit {
		entries = entries[:topLimit]
	}
	return entries
}

// round2 округляет до двух знаков после запятой
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
