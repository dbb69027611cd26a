package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Stok eşik politikası
	InventoryRebaseOnRestock bool // true: her stok girişinde eşik tabanı yeni toplama çekilir
	InventoryAbsoluteFloor   int  // >0: dinamik %50 kuralı yerine sabit eşik kullanılır

	// Yapay zeka asistanı
	AIEndpoint string
	AIAPIKey   string
}

func Load() *Config {
	// .env varsa yükle (yoksa sessizce devam et)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=klinik port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		InventoryRebaseOnRestock: getEnvBool("INVENTORY_REBASE_ON_RESTOCK", false),
		InventoryAbsoluteFloor:   getEnvInt("INVENTORY_ABSOLUTE_FLOOR", 0),

		AIEndpoint: getEnv("AI_ENDPOINT", ""),
		AIAPIKey:   getEnv("AI_API_KEY", ""),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=klinik port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.AIEndpoint == "" {
		log.Println("[WARN] AI_ENDPOINT tanımlanmamış, asistan yanıtları çalışmayacak.")
	}
	if cfg.InventoryAbsoluteFloor < 0 {
		log.Fatal("[FATAL] INVENTORY_ABSOLUTE_FLOOR negatif olamaz.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s geçersiz bool değeri (%q), varsayılan kullanılıyor", key, v)
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s geçersiz sayı değeri (%q), varsayılan kullanılıyor", key, v)
		return def
	}
	return n
}
