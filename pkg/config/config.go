package config

import (
	"os"
	"strconv"
)

// Config carries the environment-driven settings of the service.
type Config struct {
	Port string
	Env  string

	PostgresConnStr string
	MongoURI        string
	MongoDBName     string

	JWTSecret               string
	FirebaseCredentialsPath string
	RedisAddr               string

	// Media storage. MediaBackend is "local" (default) or "s3".
	MediaBackend   string
	UploadDir      string
	UploadURLBase  string
	MaxUploadBytes int64
	S3AccessKey    string
	S3SecretKey    string
	S3Region       string
	S3Endpoint     string
	S3Bucket       string
	S3PublicURL    string

	// Feed tuning.
	CooldownSeconds  int
	LikePreviewLimit int
	LikersPageSize   int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "socialmedia"),

		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		RedisAddr:               getEnv("REDIS_ADDR", ""),

		MediaBackend:   getEnv("MEDIA_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadURLBase:  getEnv("UPLOAD_URL_BASE", "/uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 50*1024*1024),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Region:       getEnv("S3_REGION", "auto"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3PublicURL:    getEnv("S3_PUBLIC_URL", ""),

		CooldownSeconds:  getEnvInt("POST_COOLDOWN_SECONDS", 60),
		LikePreviewLimit: getEnvInt("LIKE_PREVIEW_LIMIT", 200),
		LikersPageSize:   getEnvInt("USER_LIKES_PAGE_SIZE", 9),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
