// Пакет countries реализует клиент обогащения метаданными стран через REST Countries API
package countries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"InflowEvaluator/internal/model"
)

// ErrNotFound возвращается при любой неудаче поиска страны:
// сетевая ошибка, таймаут, не-200 ответ, пустой или некорректный payload.
// Внешний источник — жёсткая граница, различия причин наружу не выносятся
var ErrNotFound = errors.New("country not found")

// DefaultBaseURL — адрес REST Countries API по умолчанию
const DefaultBaseURL = "https://restcountries.com"

// defaultTimeout ограничивает время ожидания внешнего вызова
const defaultTimeout = 8 * time.Second

// Cache определяет интерфейс кэширования результатов поиска (Redis)
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Client выполняет поиск метаданных страны по точному имени.
// HTTP-клиент внедряется снаружи, таймаут задаётся его полем Timeout
type Client struct {
	http    *http.Client
	baseURL string
	cache   Cache // nil — без кэширования
	ttl     time.Duration
}

// NewClient создаёт клиент обогащения. Нулевые аргументы заменяются значениями по умолчанию
func NewClient(httpClient *http.Client, baseURL string, cache Cache, ttl time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: baseURL, cache: cache, ttl: ttl}
}

// apiCountry описывает нужную часть ответа REST Countries API
type apiCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Region     string   `json:"region"`
	Population int64    `json:"population"`
	Capital    []string `json:"capital"`
	Currencies map[string]struct {
		Name string `json:"name"`
	} `json:"currencies"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
	CCA2 string `json:"cca2"`
}

// Lookup ищет метаданные страны по точному имени (fullText):
// 1. Пытается получить результат из кэша
// 2. При промахе выполняет внешний GET с ограниченным временем ожидания
// 3. Любая неудача нормализуется в ErrNotFound
// 4. Успешный результат нормализуется, кэшируется и возвращается
func (c *Client) Lookup(ctx context.Context, name string) (*model.CountryInfo, error) {
	key := "country:" + name
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var info model.CountryInfo
			if err := json.Unmarshal(data, &info); err == nil {
				return &info, nil
			}
		}
	}
	u := fmt.Sprintf("%s/v3.1/name/%s?fullText=true", c.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, ErrNotFound
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ErrNotFound
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, ErrNotFound
	}
	var payload []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) == 0 {
		return nil, ErrNotFound
	}
	info := normalize(payload[0])
	if c.cache != nil {
		// ошибки кэша не влияют на результат поиска
		if data, err := json.Marshal(info); err == nil {
			_ = c.cache.Set(ctx, key, data, c.ttl)
		}
	}
	return info, nil
}

// normalize приводит ответ API к модели CountryInfo:
// первая столица (или null), валюты как "CODE (Name)" через запятую (или null),
// URL флага PNG (или null)
func normalize(c apiCountry) *model.CountryInfo {
	info := &model.CountryInfo{
		Name:       c.Name.Common,
		Region:     c.Region,
		Population: c.Population,
		CCA2:       c.CCA2,
	}
	if len(c.Capital) > 0 {
		info.Capital = &c.Capital[0]
	}
	if len(c.Currencies) > 0 {
		codes := make([]string, 0, len(c.Currencies))
		for code := range c.Currencies {
			codes = append(codes, code)
		}
		// сортируем коды для детерминированного порядка
		sort.Strings(codes)
		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			parts = append(parts, fmt.Sprintf("%s (%s)", code, c.Currencies[code].Name))
		}
		joined := strings.Join(parts, ", ")
		info.Currencies = &joined
	}
	if c.Flags.PNG != "" {
		png := c.Flags.PNG
		info.FlagPNG = &png
	}
	return info
}
