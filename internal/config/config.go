package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"weathertweetbot/internal/publish"
	"weathertweetbot/internal/weather"
)

var validate = validator.New()

// AppConfig is the long-lived configuration object, read from the
// environment once at startup and reused across all publish cycles.
type AppConfig struct {
	// WeatherAPIKey authenticates against OpenWeatherMap. Its absence is
	// not fatal at startup: cycles will fail at the fetch stage with a
	// clear diagnostic, and preview-only deployments may run without it.
	WeatherAPIKey string

	// Twitter credentials are required only when posting is enabled.
	Twitter publish.Credentials

	// PostToTwitterEnabled gates the publish stage; when false every cycle
	// completes as a deliberate skip.
	PostToTwitterEnabled bool

	Location weather.Location
	Region   string

	// TZ is the local timezone used for tweet timestamps and weekday tags.
	TZ *time.Location

	// HTTPTimeout applies to all outbound calls (weather fetch, publish).
	HTTPTimeout time.Duration

	// PostInterval enables the built-in scheduler when > 0 (0 = disabled;
	// an external caller triggers /run-tweet-task instead).
	PostInterval time.Duration

	Port string

	// Image rendering.
	WkhtmlPath string
	ImageWidth int
}

// twitterCreds mirrors publish.Credentials with validation tags; the keys
// are checked together so one missing credential reports alongside the rest.
type twitterCreds struct {
	APIKey            string `validate:"required"`
	APISecret         string `validate:"required"`
	AccessToken       string `validate:"required"`
	AccessTokenSecret string `validate:"required"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.Twitter = publish.Credentials{
		APIKey:            os.Getenv("TWITTER_API_KEY"),
		APISecret:         os.Getenv("TWITTER_API_SECRET"),
		AccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
	}

	cfg.PostToTwitterEnabled = strings.ToLower(getenvDefault("POST_TO_TWITTER_ENABLED", "true")) == "true"

	cfg.Location = weather.Location{
		City:    getenvDefault("WEATHER_LOCATION_CITY", "Gachibowli"),
		Country: getenvDefault("WEATHER_LOCATION_COUNTRY", "IN"),
	}
	cfg.Region = getenvDefault("WEATHER_LOCATION_REGION", "Hyderabad")

	tzName := getenvDefault("TIMEZONE", "Asia/Kolkata")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		if tzName != "Asia/Kolkata" {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
		}
		// No tzdata on this host; the default zone has a fixed offset.
		log.Printf("INFO: timezone database unavailable, using fixed +05:30 offset: %v", err)
		tz = time.FixedZone("IST", 5*3600+30*60)
	}
	cfg.TZ = tz

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Built-in scheduling is off unless an interval is provided.
	if intervalStr := os.Getenv("POST_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid POST_INTERVAL: %w", err)
		}
		cfg.PostInterval = interval
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.WkhtmlPath = getenvDefault("WKHTMLTOIMAGE_PATH", "wkhtmltoimage")
	cfg.ImageWidth = getenvInt("IMAGE_WIDTH", 600)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the publish-path preconditions: posting requires the
// full Twitter credential set before the first cycle runs. A missing weather
// key only warns, since cycles degrade to a reported fetch failure.
func (c *AppConfig) Validate() error {
	if c.WeatherAPIKey == "" {
		log.Println("WARN: WEATHER_API_KEY not set; weather fetches will fail")
	}

	if !c.PostToTwitterEnabled {
		log.Println("WARN: Twitter interactions are DISABLED (Test Mode).")
		return nil
	}

	creds := twitterCreds{
		APIKey:            c.Twitter.APIKey,
		APISecret:         c.Twitter.APISecret,
		AccessToken:       c.Twitter.AccessToken,
		AccessTokenSecret: c.Twitter.AccessTokenSecret,
	}
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("twitter credentials incomplete while posting is enabled: %w", err)
	}

	log.Println("INFO: Twitter interactions ARE ENABLED.")
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
