// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	LeadTime LeadTimeConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	UploadDir    string
	InventoryCSV string
	BomCSV       string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	TimelineTTLSeconds int
}

// LeadTimeConfig carries the per-org procurement lead times in weeks.
// Overrides come from LEADTIME_WEEKS as "ORG:weeks,ORG:weeks".
type LeadTimeConfig struct {
	DefaultWeeks int
	OrgWeeks     map[string]int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_UPLOAD_DIR", "./data/uploads")
		viper.SetDefault("APP_INVENTORY_CSV", "")
		viper.SetDefault("APP_BOM_CSV", "")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TIMELINE_TTL_SECONDS", 60)
		viper.SetDefault("LEADTIME_DEFAULT_WEEKS", 4)
		viper.SetDefault("LEADTIME_WEEKS", "IDCKDM:6,VNHCDM:7,VNHNDM:7,THBNDM:5,MYBGPM:5")

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_UPLOAD_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				UploadDir:    viper.GetString("APP_UPLOAD_DIR"),
				InventoryCSV: viper.GetString("APP_INVENTORY_CSV"),
				BomCSV:       viper.GetString("APP_BOM_CSV"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				TimelineTTLSeconds: viper.GetInt("CACHE_TIMELINE_TTL_SECONDS"),
			},
			LeadTime: LeadTimeConfig{
				DefaultWeeks: viper.GetInt("LEADTIME_DEFAULT_WEEKS"),
				OrgWeeks:     parseOrgWeeks(viper.GetString("LEADTIME_WEEKS")),
			},
		}
	})

	return instance
}

// parseOrgWeeks parses "ORG:weeks,ORG:weeks" pairs; malformed pairs are skipped.
func parseOrgWeeks(raw string) map[string]int {
	result := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		org := strings.ToUpper(strings.TrimSpace(parts[0]))
		weeks, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if org == "" || err != nil || weeks <= 0 {
			continue
		}
		result[org] = weeks
	}
	return result
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
