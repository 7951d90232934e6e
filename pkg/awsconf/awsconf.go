// Package awsconf loads the AWS configuration shared by the ECR and SSM
// clients.
package awsconf

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/pkg/errors"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// LoadConfig resolves credentials through the default AWS chain.
func LoadConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "load aws config")
	}
	return cfg, nil
}
