package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	nats "github.com/nats-io/nats.go"

	"InflowEvaluator/internal/countries"
	"InflowEvaluator/internal/repository"
	"InflowEvaluator/internal/service"
	externalHttp "InflowEvaluator/internal/transport/http"
	"InflowEvaluator/pkg/cache"
	"InflowEvaluator/pkg/events"
)

func main() {
	// подгружаем .env, если он есть; в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		log.Printf(".env не найден, используем переменные окружения")
	}
	// читаем переменные окружения
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		log.Printf("DB_PATH не задан, используем файл по умолчанию 'products.db'")
		dbPath = "products.db"
	}
	natsURL := os.Getenv("NATS_URL")
	natsSubject := os.Getenv("NATS_SUBJECT")
	if natsSubject == "" {
		natsSubject = "products.audit"
	}
	redisAddr := os.Getenv("REDIS_ADDR")
	countryAPIURL := os.Getenv("COUNTRY_API_URL")
	countryTTL := time.Hour
	if v := os.Getenv("COUNTRY_CACHE_TTL_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid COUNTRY_CACHE_TTL_SECONDS: %v", err)
		}
		countryTTL = time.Duration(sec) * time.Second
	}
	// подключаем SQLite
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("failed to open SQLite database: %v", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping SQLite database: %v", err)
	}

	// Применяем миграции SQLite с помощью golang-migrate
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		log.Fatalf("failed to create migrate driver: %v", err)
	}
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations/sqlite", "sqlite3", driver,
	)
	if err != nil {
		log.Fatalf("failed to create migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	// подключаем Redis для кэша справочника стран
	rClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	cacheClient := cache.NewRedisClient(rClient.Options())
	// подключаем NATS
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}
	publisher := events.NewPublisher(nc, natsSubject)
	// клиент обогащения метаданными стран
	countryClient := countries.NewClient(&http.Client{Timeout: 8 * time.Second}, countryAPIURL, cacheClient, countryTTL)
	// создаем репозиторий и сервис
	repo := repository.NewProductRepository(db)
	srv := service.NewProductsService(repo, publisher)
	// настраиваем HTTP маршруты
	// подключаем middleware для логирования HTTP-запросов
	r := mux.NewRouter()
	r.Use(externalHttp.LoggingMiddleware())
	h := externalHttp.NewHandler(srv, countryClient)
	h.RegisterRoutes(r)
	// запускаем HTTP сервер с поддержкой graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	srvHttp := &http.Server{Addr: addr, Handler: r}
	// запуск сервера в горутине
	go func() {
		log.Printf("starting server at %s", addr)
		if err := srvHttp.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()
	// ожидаем сигнал для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutting down server...")
	// контекст с таймаутом для остановки
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srvHttp.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Printf("server exited properly")
	// закрываем Redis-клиент
	if err := rClient.Close(); err != nil {
		log.Printf("failed to close Redis client: %v", err)
	}
	// корректно дренируем и закрываем NATS-соединение
	if err := nc.Drain(); err != nil {
		log.Printf("failed to drain NATS connection: %v", err)
	}
	nc.Close()
}
