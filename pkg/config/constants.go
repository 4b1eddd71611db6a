package config

const (
	EnvPrefix = "VENDORHUB"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "VENDORHUB_APP_ENV"
	EnvPort                   = "VENDORHUB_APP_PORT"
	EnvDBDSN                  = "VENDORHUB_DB_DSN"
	EnvDBHost                 = "VENDORHUB_DB_HOST"
	EnvDBUser                 = "VENDORHUB_DB_USER"
	EnvDBName                 = "VENDORHUB_DB_NAME"
	EnvDBPassword             = "VENDORHUB_DB_PASSWORD"
	EnvUseSQLite              = "VENDORHUB_USE_SQLITE"
	EnvRedisURL               = "VENDORHUB_REDIS_URL"
	EnvJWTSecret              = "VENDORHUB_JWT_SECRET"
	EnvJWTIssuer              = "VENDORHUB_JWT_ISSUER"
	EnvJWTExpMins             = "VENDORHUB_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "VENDORHUB_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCSBucket              = "VENDORHUB_GCS_BUCKET_NAME"
	EnvUploadMaxFileMB        = "VENDORHUB_UPLOAD_MAX_FILE_MB"
	EnvRejectionReasonMin     = "VENDORHUB_REJECTION_REASON_MIN"
	EnvRejectionReasonMax     = "VENDORHUB_REJECTION_REASON_MAX"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
