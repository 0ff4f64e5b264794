package config

import (
	"flag"
	"os"

	"github.com/codelynx/photolala-deletion/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags. Used by
// the local CLI; Lambda invocations carry no argv.
//
// Supported flags:
//
//	-e string   environment name (development/staging/production)
//	-b string   target bucket name
//	-t int      direct-vs-batch object count threshold
//	-g string   AWS region
//	-s string   S3 base endpoint (e.g. "http://127.0.0.1:9000/")
//	-r string   batch role ARN
//	-a string   AWS account id
//
// Args are first filtered with flagx.FilterArgs so flags owned by other
// components (e.g. the action flags of sweepctl) do not collide. When -e
// changes the environment, bucket and grace-period defaults follow it unless
// -b was given explicitly.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-b", "-t", "-g", "-s", "-r", "-a"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	env := fs.String("e", config.Environment, "environment name")
	bucket := fs.String("b", config.BucketName, "target bucket name")
	fs.IntVar(&config.DeletionThreshold, "t", config.DeletionThreshold, "deletion threshold")
	fs.StringVar(&config.AWSRegion, "g", config.AWSRegion, "AWS region")
	fs.StringVar(&config.S3BaseEndpoint, "s", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.BatchRoleArn, "r", config.BatchRoleArn, "batch role ARN")
	fs.StringVar(&config.AccountID, "a", config.AccountID, "AWS account id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["e"] {
		config.Environment = *env
		config.applyEnvironmentDefaults()
	}
	if set["b"] {
		config.BucketName = *bucket
	}
}
