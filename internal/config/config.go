// internal/config/config.go
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/lumenbio/labsite/internal/models"
)

// DefaultDocID is the background document served when the request carries no
// docId parameter.
const DefaultDocID = "179TGgjL3wbSTm-o_xiJRV7QawGmfyY0XuQcrbcJVtW8"

// Config stores process-level configuration read from the environment.
type Config struct {
	Port         string
	DebugMode    bool
	LogDir       string
	TemplatesDir string
	StaticDir    string

	// Google service account credential, scoped read-only to documents and
	// Drive file content. Empty values are a per-request configuration
	// error, not a startup failure.
	GoogleClientEmail string
	GooglePrivateKey  string

	BackgroundDocID string

	Site SiteConfig
}

// SiteConfig is the page-level widget configuration: which spreadsheet backs
// the protocols gallery and which worksheets make up the communication
// directory. Loaded from a JSON file so content editors can change it without
// a rebuild.
type SiteConfig struct {
	Protocols     ProtocolSheet      `json:"protocols"`
	Communication CommunicationSheet `json:"communication"`
}

// ProtocolSheet identifies the protocols worksheet and its rendering defaults.
type ProtocolSheet struct {
	SheetID      string `json:"sheet_id"`
	GID          string `json:"gid"`
	SheetName    string `json:"sheet_name"`
	DefaultImage string `json:"default_image"`
}

// CommunicationSheet identifies the communication spreadsheet and its
// category worksheets.
type CommunicationSheet struct {
	SheetID    string            `json:"sheet_id"`
	Categories []models.Category `json:"categories"`
}

// Load reads configuration from the environment, with an optional .env file,
// and merges the site config file over its defaults.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DebugMode:         getEnvBool("DEBUG_MODE", true),
		LogDir:            getEnv("LOG_DIR", "logs"),
		TemplatesDir:      getEnv("TEMPLATES_DIR", "web/templates"),
		StaticDir:         getEnv("STATIC_DIR", "web/static"),
		GoogleClientEmail: getEnv("GOOGLE_CLIENT_EMAIL", ""),
		GooglePrivateKey:  normalizePrivateKey(getEnv("GOOGLE_PRIVATE_KEY", "")),
		BackgroundDocID:   getEnv("BACKGROUND_DOC_ID", DefaultDocID),
		Site: SiteConfig{
			Protocols: ProtocolSheet{
				DefaultImage: "/static/images/lab-logo.jpeg",
			},
		},
	}

	if err := loadSiteConfig(getEnv("SITE_CONFIG", "data/site.json"), &cfg.Site); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSiteConfig merges a JSON site config file into dst. A missing file is
// fine; a present-but-malformed file is a startup error since serving with a
// silently empty site would look like a data outage.
func loadSiteConfig(path string, dst *SiteConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	defaultImage := dst.Protocols.DefaultImage
	if err := json.Unmarshal(data, dst); err != nil {
		return err
	}
	if dst.Protocols.DefaultImage == "" {
		dst.Protocols.DefaultImage = defaultImage
	}
	return nil
}

// normalizePrivateKey restores real newlines in a PEM key that was stored in
// an env var with escaped "\n" sequences.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// getEnv returns an environment variable or a default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool returns a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
