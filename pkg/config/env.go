package config

const (
	EnvPrefix = "MARKETPLACE"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	OTPChannelLog = "log"
	OTPChannelSNS = "sns"
)

const (
	EnvAppEnv            = "MARKETPLACE_APP_ENV"
	EnvPort              = "MARKETPLACE_APP_PORT"
	EnvDBDSN             = "MARKETPLACE_DB_DSN"
	EnvDBHost            = "MARKETPLACE_DB_HOST"
	EnvDBUser            = "MARKETPLACE_DB_USER"
	EnvDBName            = "MARKETPLACE_DB_NAME"
	EnvRedisURL          = "MARKETPLACE_REDIS_URL"
	EnvJWTSecret         = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer         = "MARKETPLACE_JWT_ISSUER"
	EnvJWTExpMins        = "MARKETPLACE_JWT_EXPIRATION_MINUTES"
	EnvOTPChannel        = "MARKETPLACE_OTP_CHANNEL"
	EnvDeliveryCharge    = "MARKETPLACE_DELIVERY_CHARGE"
	EnvPubSubEnabled     = "MARKETPLACE_PUBSUB_ENABLED"
	EnvPubSubProjectID   = "MARKETPLACE_GCP_PROJECT_ID"
	EnvPubSubDomainTopic = "MARKETPLACE_PUBSUB_DOMAIN_TOPIC"
)

var dsnPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
