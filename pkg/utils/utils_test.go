package utils

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/require"
)

func TestGetName(t *testing.T) {
	r := require.New(t)

	tags := []types.Tag{
		{Key: aws.String("Env"), Value: aws.String("qa")},
		{Key: aws.String("Name"), Value: aws.String("ohio-web")},
		{Key: aws.String("Empty")},
	}
	r.Equal("ohio-web", GetName(tags))
	r.Equal("", GetTagValue(tags, "Empty"))
	r.Equal("", GetTagValue(tags, "Missing"))
	r.Equal("", GetName(nil))
}

func TestParseStateTransitionTime(t *testing.T) {
	r := require.New(t)

	got := ParseStateTransitionTime("User initiated (2023-04-01 12:34:56 GMT)")
	r.NotNil(got)
	r.Equal(time.Date(2023, 4, 1, 12, 34, 56, 0, got.Location()), *got)

	r.Nil(ParseStateTransitionTime(""))
	r.Nil(ParseStateTransitionTime("User initiated"))
	r.Nil(ParseStateTransitionTime("User initiated (yesterday)"))
}

func TestRegionNames(t *testing.T) {
	r := require.New(t)

	r.Equal("US-East-2 (Ohio)", GetRegionDescriptiveName(GetDefaultRegion()))
	r.Equal("EU-Central-1 (Frankfurt)", GetRegionDescriptiveName("eu-central-1"))
	r.Equal("mars-1", GetRegionDescriptiveName("mars-1"))
	r.True(IsValidRegion("us-east-2"))
	r.False(IsValidRegion("mars-1"))
}

func TestSafeDeref(t *testing.T) {
	r := require.New(t)

	r.Equal("", SafeDeref(nil))
	r.Equal("x", SafeDeref(aws.String("x")))
	r.True(SafeTime(nil).IsZero())
	now := time.Now()
	r.Equal(now, SafeTime(&now))
}
