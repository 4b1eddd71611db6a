package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Uploads      UploadsConfig
	Verification VerificationConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Verification.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDORHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDORHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDORHUB_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"VENDORHUB_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"VENDORHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDORHUB_DB_DSN"`
	Driver string `envconfig:"VENDORHUB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDORHUB_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDORHUB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDORHUB_DB_USER"`
	LegacyPassword string `envconfig:"VENDORHUB_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDORHUB_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDORHUB_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"VENDORHUB_SQLITE_PATH" default:"vendorhub.db"`

	MaxOpenConns    int           `envconfig:"VENDORHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDORHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDORHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDORHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDORHUB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VENDORHUB_REDIS_ADDR"`
	Password     string        `envconfig:"VENDORHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDORHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDORHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDORHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDORHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDORHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDORHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VENDORHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VENDORHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VENDORHUB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VENDORHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENDORHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENDORHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENDORHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENDORHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENDORHUB_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VENDORHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VENDORHUB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VENDORHUB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VENDORHUB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VENDORHUB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"VENDORHUB_GCS_BUCKET_NAME"`
	PublicBaseURL     string        `envconfig:"VENDORHUB_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	DownloadURLExpiry time.Duration `envconfig:"VENDORHUB_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

// UploadsConfig bounds multipart uploads. LocalDir is used when no GCS bucket is configured.
type UploadsConfig struct {
	LocalDir          string `envconfig:"VENDORHUB_UPLOAD_LOCAL_DIR" default:"uploads"`
	MaxFileMB         int    `envconfig:"VENDORHUB_UPLOAD_MAX_FILE_MB" default:"5"`
	MaxOtherDocuments int    `envconfig:"VENDORHUB_UPLOAD_MAX_OTHER_DOCUMENTS" default:"5"`
}

// MaxFileBytes converts the per-file limit to bytes.
func (u UploadsConfig) MaxFileBytes() int64 {
	if u.MaxFileMB <= 0 {
		return 0
	}
	return int64(u.MaxFileMB) << 20
}

type VerificationConfig struct {
	RejectionReasonMin int `envconfig:"VENDORHUB_REJECTION_REASON_MIN" default:"10"`
	RejectionReasonMax int `envconfig:"VENDORHUB_REJECTION_REASON_MAX" default:"500"`
}

func (v VerificationConfig) validate() error {
	if v.RejectionReasonMin <= 0 || v.RejectionReasonMax < v.RejectionReasonMin {
		return fmt.Errorf("invalid rejection reason bounds %d..%d", v.RejectionReasonMin, v.RejectionReasonMax)
	}
	return nil
}

// CronConfig drives the maintenance worker.
type CronConfig struct {
	Interval                  time.Duration `envconfig:"VENDORHUB_CRON_INTERVAL" default:"24h"`
	LockTTL                   time.Duration `envconfig:"VENDORHUB_CRON_LOCK_TTL" default:"25h"`
	NotificationRetentionDays int           `envconfig:"VENDORHUB_NOTIFICATION_RETENTION_DAYS" default:"30"`
	ResubmissionReminderDays  int           `envconfig:"VENDORHUB_RESUBMISSION_REMINDER_DAYS" default:"7"`
	ReminderBatchSize         int           `envconfig:"VENDORHUB_RESUBMISSION_REMINDER_BATCH" default:"200"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
