package config

import (
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// object stores reject non-final multipart parts below 5 MiB
	minPartSize = 5 * 1024 * 1024
	maxParts    = 10000
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	VideosBucket      string
	TranscriptsBucket string

	AWSRegion              string
	TranscribeEndpoint     string
	TranscriptionLanguage  string
	TranscriptionJobPrefix string

	RedisAddr     string
	RedisPassword string

	ScratchDir        string
	UploadPartSize    int64
	UploadMaxAttempts int
	UploadRetryDelay  time.Duration
	MaxUploadSize     int64

	StatusCacheTTL    time.Duration
	ReconcileDelay    time.Duration
	ReconcileMaxRetry int
}

// Buckets lists every bucket the services expect to exist.
func (s *Settings) Buckets() []string {
	return []string{s.VideosBucket, s.TranscriptsBucket}
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
	"MINIO_ENDPOINT",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
	"VIDEOS_BUCKET",
	"TRANSCRIPTS_BUCKET",
	"AWS_REGION",
}

func setDefaults() {
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("TRANSCRIPTION_LANGUAGE", "en-IN")
	viper.SetDefault("TRANSCRIPTION_JOB_PREFIX", "transcription")
	viper.SetDefault("UPLOAD_PART_SIZE", "10MiB")
	viper.SetDefault("UPLOAD_MAX_ATTEMPTS", 3)
	viper.SetDefault("UPLOAD_RETRY_DELAY", "1s")
	viper.SetDefault("MAX_UPLOAD_SIZE", "1GiB")
	viper.SetDefault("STATUS_CACHE_TTL", "24h")
	viper.SetDefault("RECONCILE_DELAY", "15s")
	viper.SetDefault("RECONCILE_MAX_RETRY", 40)
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	partSize, err := parseSize("UPLOAD_PART_SIZE")
	if err != nil {
		return nil, err
	}
	maxSize, err := parseSize("MAX_UPLOAD_SIZE")
	if err != nil {
		return nil, err
	}
	if partSize < minPartSize {
		return nil, fmt.Errorf("UPLOAD_PART_SIZE must be at least %s", humanize.IBytes(minPartSize))
	}
	if (maxSize+partSize-1)/partSize > maxParts {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE needs more than %d parts of %s", maxParts, humanize.IBytes(uint64(partSize)))
	}
	if viper.GetInt("UPLOAD_MAX_ATTEMPTS") < 1 {
		return nil, fmt.Errorf("UPLOAD_MAX_ATTEMPTS must be at least 1")
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),

		VideosBucket:      viper.GetString("VIDEOS_BUCKET"),
		TranscriptsBucket: viper.GetString("TRANSCRIPTS_BUCKET"),

		AWSRegion:              viper.GetString("AWS_REGION"),
		TranscribeEndpoint:     viper.GetString("TRANSCRIBE_ENDPOINT"),
		TranscriptionLanguage:  viper.GetString("TRANSCRIPTION_LANGUAGE"),
		TranscriptionJobPrefix: viper.GetString("TRANSCRIPTION_JOB_PREFIX"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		ScratchDir:        viper.GetString("SCRATCH_DIR"),
		UploadPartSize:    partSize,
		UploadMaxAttempts: viper.GetInt("UPLOAD_MAX_ATTEMPTS"),
		UploadRetryDelay:  viper.GetDuration("UPLOAD_RETRY_DELAY"),
		MaxUploadSize:     maxSize,

		StatusCacheTTL:    viper.GetDuration("STATUS_CACHE_TTL"),
		ReconcileDelay:    viper.GetDuration("RECONCILE_DELAY"),
		ReconcileMaxRetry: viper.GetInt("RECONCILE_MAX_RETRY"),
	}, nil
}

// parseSize accepts plain byte counts as well as "10MiB" or "1 GB".
func parseSize(key string) (int64, error) {
	n, err := humanize.ParseBytes(viper.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid size: %w", key, err)
	}
	return int64(n), nil
}
