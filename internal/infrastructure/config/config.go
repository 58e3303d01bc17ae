package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Question bank exports (JSON row arrays), merged in order.
	BankPaths []string

	// SQLite database holding completed exam attempts.
	HistoryDBPath string

	// Workers used to parse bank files concurrently.
	LoadWorkers int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		BankPaths:     splitList(getenvDefault("BANK_PATHS", "questionbank.json")),
		HistoryDBPath: getenvDefault("HISTORY_DB_PATH", "raido-mock-exam.db"),
		LoadWorkers:   getenvIntDefault("LOAD_WORKERS", 4),
	}
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
