package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config file names looked up inside the config directory
const (
	FacilitiesFile      = "facilities.yaml"
	DriversFile         = "drivers.yaml"
	ValidationRulesFile = "validation_rules.yaml"
)

// DefaultGrindingToFactoryCostPerTon is the bunker transport rate in Rial per metric ton
const DefaultGrindingToFactoryCostPerTon = 3200000

// Config holds every externally supplied table the engine consumes
type Config struct {
	Facilities Facilities
	Drivers    Drivers
	Thresholds Thresholds
	Transport  Transport
	Notify     Notify
}

// Facility describes one grinding site
type Facility struct {
	NameEN      string `yaml:"name_en"`
	NameFA      string `yaml:"name_fa"`
	BunkerSheet string `yaml:"bunker_sheet"` // Sheet name in the bunker workbook
	TruckDest   string `yaml:"truck_dest"`   // Destination text used on truck receipts
}

// Facilities maps facility code (A/B/C) to its description
type Facilities map[string]Facility

// Codes returns the facility codes in sorted order
func (f Facilities) Codes() []string {
	codes := make([]string, 0, len(f))
	for code := range f {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DestinationFor returns the configured truck destination for a facility code
func (f Facilities) DestinationFor(code string) string {
	return f[code].TruckDest
}

// FacilityForDestination returns the first facility (by code order) whose truck
// destination is a substring of destination
func (f Facilities) FacilityForDestination(destination string) (string, bool) {
	for _, code := range f.Codes() {
		dest := f[code].TruckDest
		if dest != "" && strings.Contains(destination, dest) {
			return code, true
		}
	}
	return "", false
}

// FacilityForSheet resolves a bunker sheet name to a facility code. An exact
// match wins over a partial one.
func (f Facilities) FacilityForSheet(sheet string) (string, bool) {
	codes := f.Codes()
	for _, code := range codes {
		if s := f[code].BunkerSheet; s != "" && s == sheet {
			return code, true
		}
	}
	for _, code := range codes {
		if s := f[code].BunkerSheet; s != "" && strings.Contains(sheet, s) {
			return code, true
		}
	}
	return "", false
}

// DriverEntry is one canonical driver with the spellings seen in the data
type DriverEntry struct {
	Aliases []string `yaml:"aliases"`
	Status  string   `yaml:"status"`
}

// Drivers is the canonical driver registry
type Drivers struct {
	Canonical map[string]DriverEntry `yaml:"canonical_drivers"`
}

// Transport holds per-route transport rates
type Transport struct {
	GrindingToFactoryCostPerTon float64 `yaml:"grinding_to_factory_cost_per_ton_rial"`
}

// Load reads the configuration tables from dir. Missing files fall back to
// defaults; malformed files are an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := loadYAML(filepath.Join(dir, FacilitiesFile), &cfg.Facilities); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, DriversFile), &cfg.Drivers); err != nil {
		return nil, err
	}

	rules := rulesFile{Thresholds: cfg.Thresholds, Transport: cfg.Transport}
	if err := loadYAML(filepath.Join(dir, ValidationRulesFile), &rules); err != nil {
		return nil, err
	}
	// rules was seeded with the defaults, so keys absent from the file keep them
	cfg.Thresholds = rules.Thresholds
	cfg.Transport = rules.Transport

	cfg.Notify = NotifyFromEnv()
	return cfg, nil
}

// Default returns a configuration with default thresholds and empty tables
func Default() *Config {
	return &Config{
		Facilities: Facilities{},
		Drivers:    Drivers{Canonical: map[string]DriverEntry{}},
		Thresholds: DefaultThresholds(),
		Transport: Transport{
			GrindingToFactoryCostPerTon: DefaultGrindingToFactoryCostPerTon,
		},
	}
}

type rulesFile struct {
	Thresholds `yaml:",inline"`
	Transport  Transport `yaml:"transport"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Notify holds transport settings for the notification channels
type Notify struct {
	TelegramBotToken string
	TelegramChatID   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string
	EmailTo      []string
	EmailDigest  bool // mail a per-batch digest in addition to immediate critical alerts

	AlertLogPath string
}

// NotifyFromEnv reads notification settings from the environment
func NotifyFromEnv() Notify {
	n := Notify{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		SMTPHost:         envOr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         587,
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		AlertLogPath:     envOr("ALERT_LOG_PATH", filepath.Join("logs", "alerts.log")),
	}
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		n.SMTPPort = p
	}
	if d, err := strconv.ParseBool(os.Getenv("EMAIL_DIGEST")); err == nil {
		n.EmailDigest = d
	}
	for _, addr := range strings.Split(os.Getenv("EMAIL_TO"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			n.EmailTo = append(n.EmailTo, addr)
		}
	}
	return n
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
