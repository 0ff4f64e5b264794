package config

import (
	"os"
	"strconv"
)

// parseEnv overlays Config fields from environment variables. This is the
// primary configuration channel in Lambda, where everything arrives through
// the function environment.
//
// Variables:
//
//	ENVIRONMENT        active environment name
//	BUCKET_NAME        target bucket (overrides the per-environment default)
//	DELETION_THRESHOLD direct-vs-batch object count threshold
//	AWS_REGION         region override
//	S3_BASE_ENDPOINT   endpoint override for S3-compatible backends
//	S3_ACCESS_KEY      static access key for S3-compatible backends
//	S3_SECRET_KEY      static secret key for S3-compatible backends
//	BATCH_ROLE_ARN     IAM role for S3 Batch Operations jobs
//	AWS_ACCOUNT_ID     account id (skips the STS lookup when set)
func parseEnv(config *Config) {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		config.Environment = v
		config.applyEnvironmentDefaults()
	}
	if v := os.Getenv("BUCKET_NAME"); v != "" {
		config.BucketName = v
	}
	if v := os.Getenv("DELETION_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.DeletionThreshold = n
		}
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		config.AWSRegion = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		config.S3AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		config.S3SecretKey = v
	}
	if v := os.Getenv("BATCH_ROLE_ARN"); v != "" {
		config.BatchRoleArn = v
	}
	if v := os.Getenv("AWS_ACCOUNT_ID"); v != "" {
		config.AccountID = v
	}
}
