package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/stretchr/testify/require"
)

type fakeRegionGetter struct {
	region string
	err    error
	calls  int
}

func (f *fakeRegionGetter) GetRegion(ctx context.Context, params *imds.GetRegionInput, optFns ...func(*imds.Options)) (*imds.GetRegionOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &imds.GetRegionOutput{Region: f.region}, nil
}

func TestResolveRegion(t *testing.T) {
	ctx := context.Background()

	t.Run("configured wins", func(t *testing.T) {
		r := require.New(t)
		getter := &fakeRegionGetter{region: "eu-central-1"}

		region, source := ResolveRegion(ctx, "us-west-2", "us-east-1", getter)
		r.Equal("us-west-2", region)
		r.Equal(RegionFromFlag, source)
		r.Zero(getter.calls)
	})

	t.Run("sdk region", func(t *testing.T) {
		r := require.New(t)
		region, source := ResolveRegion(ctx, "", "us-east-1", &fakeRegionGetter{})
		r.Equal("us-east-1", region)
		r.Equal(RegionFromSDK, source)
	})

	t.Run("instance metadata", func(t *testing.T) {
		r := require.New(t)
		region, source := ResolveRegion(ctx, "", "", &fakeRegionGetter{region: "eu-central-1"})
		r.Equal("eu-central-1", region)
		r.Equal(RegionFromIMDS, source)
	})

	t.Run("default when metadata unavailable", func(t *testing.T) {
		r := require.New(t)
		region, source := ResolveRegion(ctx, "", "", &fakeRegionGetter{err: errors.New("no imds")})
		r.Equal("us-east-2", region)
		r.Equal(RegionFromDefault, source)

		region, source = ResolveRegion(ctx, "", "", nil)
		r.Equal("us-east-2", region)
		r.Equal(RegionFromDefault, source)
	})
}
