package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/smithy-go"
	"github.com/younsl/failover/pkg/utils"
)

const imdsTimeout = 2 * time.Second

// RegionSource tells where the region used by the client came from
type RegionSource string

const (
	RegionFromFlag    RegionSource = "configuration"
	RegionFromSDK     RegionSource = "aws shared config"
	RegionFromIMDS    RegionSource = "instance metadata"
	RegionFromDefault RegionSource = "default"
)

// RegionGetter is the subset of the IMDS client used for region lookup
type RegionGetter interface {
	GetRegion(ctx context.Context, params *imds.GetRegionInput, optFns ...func(*imds.Options)) (*imds.GetRegionOutput, error)
}

// LoadConfig loads the default AWS config and settles on a region.
// The configured region wins, then whatever the SDK chain found, then
// instance metadata, then the default primary region.
func LoadConfig(ctx context.Context, region string) (aws.Config, RegionSource, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, "", fmt.Errorf("error loading AWS config: %w", err)
	}

	resolved, source := ResolveRegion(ctx, region, cfg.Region, imds.NewFromConfig(cfg))
	cfg.Region = resolved
	return cfg, source, nil
}

// ResolveRegion picks a region in precedence order. getter may be nil.
func ResolveRegion(ctx context.Context, configured, sdkRegion string, getter RegionGetter) (string, RegionSource) {
	if configured != "" {
		return configured, RegionFromFlag
	}
	if sdkRegion != "" {
		return sdkRegion, RegionFromSDK
	}
	if getter != nil {
		ctx, cancel := context.WithTimeout(ctx, imdsTimeout)
		defer cancel()
		out, err := getter.GetRegion(ctx, &imds.GetRegionInput{})
		if err == nil && out != nil && out.Region != "" {
			return out.Region, RegionFromIMDS
		}
	}
	return utils.GetDefaultRegion(), RegionFromDefault
}

// APIErrorCode returns the AWS error code carried by err, or "" if err is
// not an AWS API error.
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
