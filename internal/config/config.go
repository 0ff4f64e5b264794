// Package config handles configuration for the deletion service,
// including per-environment defaults, environment-variable overlay,
// and command-line flags for the local CLI.
package config

import "time"

// Environment names recognized by the service.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds runtime settings for the account-deletion service.
//
// Fields:
//   - Environment: active environment name (development/staging/production).
//   - BucketName: target S3 bucket; defaults follow the environment.
//   - DeletionThreshold: object count above which deletion goes through an
//     S3 Batch Operations job instead of direct DeleteObjects calls.
//   - GracePeriod: delay between a deletion request and its due time.
//     Applied by the scheduling caller, surfaced here for reference.
//   - AWSRegion: region override; empty means the SDK default chain.
//   - S3BaseEndpoint: optional endpoint override for S3-compatible backends.
//   - S3AccessKey, S3SecretKey: static credentials for S3-compatible backends;
//     empty means the SDK default credential chain.
//   - BatchRoleArn: IAM role assumed by S3 Batch Operations jobs; empty means
//     the conventional role derived from the account id.
//   - AccountID: AWS account id override; empty means resolve via STS once
//     at startup.
type Config struct {
	Environment       string
	BucketName        string
	DeletionThreshold int
	GracePeriod       time.Duration
	AWSRegion         string
	S3BaseEndpoint    string
	S3AccessKey       string
	S3SecretKey       string
	BatchRoleArn      string
	AccountID         string
}

// bucketForEnvironment maps each environment to its bucket.
var bucketForEnvironment = map[string]string{
	EnvDevelopment: "photolala-dev",
	EnvStaging:     "photolala-stage",
	EnvProduction:  "photolala-prod",
}

// gracePeriodForEnvironment maps each environment to the delay before a
// scheduled deletion becomes due: 3 minutes in development, 3 days in
// staging, 30 days in production.
var gracePeriodForEnvironment = map[string]time.Duration{
	EnvDevelopment: 180 * time.Second,
	EnvStaging:     3 * 24 * time.Hour,
	EnvProduction:  30 * 24 * time.Hour,
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Environment = EnvDevelopment
	c.BucketName = bucketForEnvironment[EnvDevelopment]
	c.DeletionThreshold = 1000
	c.GracePeriod = gracePeriodForEnvironment[EnvDevelopment]
}

// applyEnvironmentDefaults recomputes environment-derived values after the
// environment name changed. Explicit overrides are applied afterwards.
func (c *Config) applyEnvironmentDefaults() {
	if bucket, ok := bucketForEnvironment[c.Environment]; ok {
		c.BucketName = bucket
	}
	if grace, ok := gracePeriodForEnvironment[c.Environment]; ok {
		c.GracePeriod = grace
	}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
