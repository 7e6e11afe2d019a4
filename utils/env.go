package utils

import (
	"os"
	"strings"
)

func GetEnv(key string, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
