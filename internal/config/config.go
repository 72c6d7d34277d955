// internal/config/config.go
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Anastazzi-Grand/bank-rest-main/internal/cardcrypto"
	"github.com/Anastazzi-Grand/bank-rest-main/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	// CardKeys maps key ID to a 32-byte AES key. New card numbers are
	// sealed under the highest ID; older IDs stay configured so existing
	// blobs remain decryptable after a rotation.
	CardKeys map[uint8][]byte
}

// LoadConfig loads configuration from environment variables, with an
// optional .env file for local development. Startup fails loudly when the
// encryption keys are missing: generating a throwaway key would make every
// stored card number undecryptable after a restart.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // .env is optional; real deployments set env vars directly

	serverPort := fallback(os.Getenv("SERVER_PORT"), "8080")

	dbPort, err := strconv.Atoi(fallback(os.Getenv("DB_PORT"), "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cardKeys, err := parseCardKeys(os.Getenv("CARD_ENC_KEYS"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARD_ENC_KEYS: %w", err)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     fallback(os.Getenv("DB_HOST"), "localhost"),
			Port:     dbPort,
			User:     fallback(os.Getenv("DB_USER"), "user"),
			Password: fallback(os.Getenv("DB_PASSWORD"), "password"),
			DBName:   fallback(os.Getenv("DB_NAME"), "bankcards"),
			SSLMode:  fallback(os.Getenv("DB_SSLMODE"), "disable"),
		},
		CardKeys: cardKeys,
	}, nil
}

// parseCardKeys parses "id:hexkey,id:hexkey" into the key set. Each key must
// decode to exactly cardcrypto.KeySize bytes.
func parseCardKeys(raw string) (map[uint8][]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("CARD_ENC_KEYS is required")
	}

	keys := make(map[uint8][]byte)
	for _, entry := range strings.Split(raw, ",") {
		idStr, hexKey, found := strings.Cut(strings.TrimSpace(entry), ":")
		if !found {
			return nil, fmt.Errorf("entry %q is not in id:hexkey form", entry)
		}
		id, err := strconv.ParseUint(idStr, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("key id %q is not a number in 0..255: %w", idStr, err)
		}
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("key %s is not valid hex: %w", idStr, err)
		}
		if len(key) != cardcrypto.KeySize {
			return nil, fmt.Errorf("key %s must be %d bytes, got %d", idStr, cardcrypto.KeySize, len(key))
		}
		if _, exists := keys[uint8(id)]; exists {
			return nil, fmt.Errorf("duplicate key id %d", id)
		}
		keys[uint8(id)] = key
	}
	return keys, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
