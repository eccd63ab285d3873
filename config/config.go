package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from environment
// variables plus the optional YAML search-filter file.
type Config struct {
	SiteURL  string
	CardsURL string

	HistoryCSVPath string
	LogFile        string

	RunIntervalHours int
	HTTPTimeoutSec   int

	Search SearchFilter
}

// SearchFilter mirrors the query parameters of the cards endpoint.
type SearchFilter struct {
	CardType        int        `yaml:"card_type"` // 100 sale, 101 rental
	Limit           int        `yaml:"limit"`
	Offset          int        `yaml:"offset"`
	Locations       []Location `yaml:"locations"`
	RoomCounts      []int      `yaml:"room_counts"`
	HabitationTypes []int      `yaml:"habitation_types"`
	SortBy          string     `yaml:"sort_by"`
}

// Location is one search area as the API understands it.
type Location struct {
	ID    int    `yaml:"id"`
	Level int    `yaml:"level"`
	Name  string `yaml:"name"`
}

// Load reads the .env file, system env vars and the search-filter YAML file
// (when present) and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		SiteURL:  getEnv("OIKOTIE_SITE_URL", "https://asunnot.oikotie.fi/vuokra-asunnot"),
		CardsURL: getEnv("OIKOTIE_CARDS_URL", "https://asunnot.oikotie.fi/api/cards"),

		HistoryCSVPath: getEnv("HISTORY_CSV_PATH", "./data/historical_data.csv"),
		LogFile:        getEnv("LOG_FILE", ""),

		RunIntervalHours: getEnvInt("RUN_INTERVAL_HOURS", 24),
		HTTPTimeoutSec:   getEnvInt("HTTP_TIMEOUT_SECONDS", 30),

		Search: defaultSearch(),
	}

	path := getEnv("SEARCH_CONFIG_PATH", "./config/search.yaml")
	if err := loadSearchFile(path, &cfg.Search); err != nil {
		log.Printf("[config] No search filter file (%v), using defaults", err)
	}

	return cfg
}

// defaultSearch matches the filters the job has always run with: all of
// Helsinki, 3-4 room apartments for sale, newest first.
func defaultSearch() SearchFilter {
	return SearchFilter{
		CardType:        100,
		Limit:           5000,
		Offset:          0,
		Locations:       []Location{{ID: 64, Level: 6, Name: "Helsinki"}},
		RoomCounts:      []int{3, 4},
		HabitationTypes: []int{1},
		SortBy:          "published_sort_desc",
	}
}

func loadSearchFile(path string, dst *SearchFilter) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return yaml.NewDecoder(f).Decode(dst)
}

// LocationsJSON renders the locations in the API's wire format, a JSON array
// of [id, level, name] triples.
func (s SearchFilter) LocationsJSON() (string, error) {
	triples := make([][]interface{}, 0, len(s.Locations))
	for _, loc := range s.Locations {
		triples = append(triples, []interface{}{loc.ID, loc.Level, loc.Name})
	}

	b, err := json.Marshal(triples)
	if err != nil {
		return "", fmt.Errorf("config: encode locations: %w", err)
	}
	return string(b), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[config] Invalid int for %s, using default %d", key, fallback)
	}
	return fallback
}
