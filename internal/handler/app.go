package handler

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/codelynx/photolala-deletion/internal/config"
	"github.com/codelynx/photolala-deletion/internal/deletion"
	"github.com/codelynx/photolala-deletion/internal/logging"
	"github.com/codelynx/photolala-deletion/internal/s3x"
	"github.com/codelynx/photolala-deletion/internal/storage"
)

// Build wires a Handler from configuration: AWS clients, account-id
// resolution, the bucket store, and the deletion service. Called once per
// process, at startup.
func Build(ctx context.Context, cfg *config.Config, log logging.Logger) (*Handler, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			// Custom endpoints are typically S3-compatible servers without
			// virtual-host DNS.
			o.UsePathStyle = true
		}
	})

	if cfg.AccountID == "" {
		id, err := resolveAccountID(ctx, sts.NewFromConfig(awsCfg))
		if err != nil {
			return nil, err
		}
		cfg.AccountID = id
		log.Info(ctx, "resolved account id", "accountId", id)
	}

	store := storage.New(s3Client, cfg.BucketName)
	svc := deletion.NewService(store, s3control.NewFromConfig(awsCfg), cfg, log)
	return New(svc, cfg, log), nil
}

func resolveAccountID(ctx context.Context, api s3x.STSAPI) (string, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("resolve account id: %w", err)
	}
	return aws.ToString(out.Account), nil
}
