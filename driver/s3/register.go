package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gobeaver/fskit"
)

const (
	argRegion          = "region"
	argBucket          = "bucket"
	argEndpoint        = "endpoint"
	argAccessKeyID     = "access_key_id"
	argSecretAccessKey = "secret_access_key"
	argForcePathStyle  = "force_path_style"
)

func init() {
	fskit.RegisterDriver("s3", fskit.Registration{
		Flavor: fskit.ObjectStore,
		New: func(args fskit.DriverArgs) (fskit.Driver, error) {
			client, err := createClient(args)
			if err != nil {
				return nil, fmt.Errorf("failed to create S3 client: %w", err)
			}
			return New(client, args.String(argBucket)), nil
		},
		PrepareCredentials: func(cfg *fskit.Config) (fskit.DriverArgs, error) {
			if cfg == nil {
				return fskit.DriverArgs{}, nil
			}
			return fskit.DriverArgs{
				argRegion:          cfg.S3Region,
				argBucket:          cfg.S3Bucket,
				argEndpoint:        cfg.S3Endpoint,
				argAccessKeyID:     cfg.S3AccessKeyID,
				argSecretAccessKey: cfg.S3SecretAccessKey,
				argForcePathStyle:  cfg.S3ForcePathStyle,
			}, nil
		},
	})
}

// createClient builds an S3 client from resolved connection arguments.
func createClient(args fskit.DriverArgs) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(args.String(argRegion)),
	)
	if err != nil {
		return nil, err
	}

	if args.String(argAccessKeyID) != "" && args.String(argSecretAccessKey) != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(
			args.String(argAccessKeyID),
			args.String(argSecretAccessKey),
			"",
		)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := args.String(argEndpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if args.Bool(argForcePathStyle) {
			o.UsePathStyle = true
		}
	}), nil
}
