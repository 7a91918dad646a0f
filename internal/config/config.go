package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port       int
	APIKey     string
	VideoInput string // file path, RTSP URL or device index

	ModelPath       string
	ModelConfigPath string

	ConfidenceThreshold float64
	ViolationClasses    []string

	MinTimeBetweenAlerts time.Duration
	AlertQueueSize       int

	SaveScreenshots  bool
	ScreenshotDir    string
	MaxScreenshotDir int64 // maximum screenshot directory size in GB

	SaveOutput bool
	OutputDir  string

	ProcessingInterval int // process every Nth frame (1=every frame)

	DatabasePath string
	LogDirectory string

	EnableAlerts     bool
	TelegramBotToken string
	TelegramChatID   int64

	EnableKafka           bool
	KafkaBootstrapServers string
	KafkaTopic            string
	KafkaAcks             string
	KafkaCompressionType  string
	KafkaLingerMS         int
}

func Load() *Config {
	return &Config{
		Port:       getEnvAsInt("PORT", 8080),
		APIKey:     getEnv("API_KEY", ""),
		VideoInput: getEnv("VIDEO_INPUT", filepath.Join(".", "videos", "site_feed.mp4")),

		ModelPath:       getEnv("MODEL_PATH", filepath.Join(".", "models", "ppe_ssd_inference_graph.pb")),
		ModelConfigPath: getEnv("MODEL_CONFIG_PATH", filepath.Join(".", "models", "ppe_ssd_mobilenet_v2.pbtxt")),

		ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		ViolationClasses:    getEnvAsList("VIOLATION_CLASSES", []string{"no_helmet", "no_vest"}),

		MinTimeBetweenAlerts: getEnvAsDuration("MIN_TIME_BETWEEN_ALERTS", 60*time.Second),
		AlertQueueSize:       getEnvAsInt("ALERT_QUEUE_SIZE", 16),

		SaveScreenshots:  getEnvAsBool("SAVE_SCREENSHOTS", true),
		ScreenshotDir:    getEnv("SCREENSHOT_DIR", filepath.Join(".", "screenshots")),
		MaxScreenshotDir: getEnvAsInt64("MAX_SCREENSHOT_DIR_SIZE", 4), // GB

		SaveOutput: getEnvAsBool("SAVE_OUTPUT", false),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(".", "output")),

		ProcessingInterval: getEnvAsInt("PROCESSING_INTERVAL", 1),

		DatabasePath: getEnv("DB_PATH", filepath.Join(".", "data", "events.db")),
		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),

		EnableAlerts:     getEnvAsBool("ENABLE_ALERTS", false),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvAsInt64("TELEGRAM_CHAT_ID", 0),

		EnableKafka:           getEnvAsBool("ENABLE_KAFKA", false),
		KafkaBootstrapServers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "safety-violations"),
		KafkaAcks:             getEnv("KAFKA_ACKS", "all"),
		KafkaCompressionType:  getEnv("KAFKA_COMPRESSION_TYPE", "snappy"),
		KafkaLingerMS:         getEnvAsInt("KAFKA_LINGER_MS", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a duration either as a Go duration string ("90s", "2m")
// or as a plain number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
