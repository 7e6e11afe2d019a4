package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ThumbnailDir maps an on-disk directory of thumbnail images to the
// public path prefix the site serves it under.
type ThumbnailDir struct {
	Dir          string
	PublicPrefix string
}

type Config struct {
	DataPath   string
	PublicPath string

	SheetID     string
	SheetAPIKey string
	SheetRange  string

	DevMode bool
}

var globalConfig = defaultConfig()

func defaultConfig() *Config {
	return &Config{
		DataPath:    ".",
		PublicPath:  "public",
		SheetID:     os.Getenv("SHEET_ID"),
		SheetAPIKey: os.Getenv("SHEET_API_KEY"),
		SheetRange:  sheetRangeFromEnv(),
		DevMode:     os.Getenv("DEV_MODE") == "true",
	}
}

func sheetRangeFromEnv() string {
	sheetRange := strings.TrimSpace(os.Getenv("SHEET_RANGE"))
	if sheetRange == "" {
		sheetRange = "Content!A:H"
	}
	return sheetRange
}

func GetConfig() *Config {
	return globalConfig
}

func SetConfig(c *Config) {
	globalConfig = c
}

func GetCachePath() string {
	return filepath.Join(globalConfig.DataPath, ".cache", "theatre-works.json")
}

func GetThumbnailDirs() []ThumbnailDir {
	return []ThumbnailDir{
		{
			Dir:          filepath.Join(globalConfig.PublicPath, "assets", "images", "thumbnails"),
			PublicPrefix: "/assets/images/thumbnails",
		},
		{
			Dir:          filepath.Join(globalConfig.PublicPath, "assets", "images"),
			PublicPrefix: "/assets/images",
		},
	}
}

func IsDevMode() bool {
	return globalConfig.DevMode
}
