package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
	"github.com/younsl/failover/internal/models"
)

const testInstanceID = "i-034f6c3491e1661a4"

func TestGetInstance(t *testing.T) {
	ctx := context.Background()

	t.Run("maps instance fields", func(t *testing.T) {
		r := require.New(t)
		mock := &MockEC2{Instances: []types.Instance{NewMockInstance(testInstanceID, types.InstanceStateNameRunning)}}
		client := NewEC2ClientWithAPI(mock, "us-east-2")

		info, err := client.GetInstance(ctx, testInstanceID)
		r.NoError(err)
		r.Equal(testInstanceID, info.InstanceID)
		r.Equal("ohio-web", info.Name)
		r.Equal("us-east-2", info.Region)
		r.Equal("us-east-2a", info.AvailabilityZone)
		r.Equal("18.221.85.157", info.PublicIP)
		r.Equal(models.StateRunning, info.State)
		r.NotNil(info.StateChangedAt)
		r.True(info.State.IsUp())
	})

	t.Run("every lifecycle state is reported as is", func(t *testing.T) {
		for _, state := range models.States {
			r := require.New(t)
			mock := &MockEC2{Instances: []types.Instance{NewMockInstance(testInstanceID, types.InstanceStateName(state))}}
			info, err := NewEC2ClientWithAPI(mock, "us-east-2").GetInstance(ctx, testInstanceID)
			r.NoError(err)
			r.Equal(state, info.State)
			r.Equal(state == models.StateRunning, info.State.IsUp())
		}
	})

	t.Run("api failure", func(t *testing.T) {
		r := require.New(t)
		mock := &MockEC2{DescribeErr: &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}}

		_, err := NewEC2ClientWithAPI(mock, "us-east-2").GetInstance(ctx, testInstanceID)
		r.Error(err)
		r.Equal("UnauthorizedOperation", APIErrorCode(err))
		r.Equal(1, mock.DescribeCalls)
	})

	t.Run("empty response", func(t *testing.T) {
		r := require.New(t)
		mock := &MockEC2{}

		_, err := NewEC2ClientWithAPI(mock, "us-east-2").GetInstance(ctx, testInstanceID)
		r.ErrorIs(err, ErrInstanceNotFound)
	})

	t.Run("missing state", func(t *testing.T) {
		r := require.New(t)
		instance := NewMockInstance(testInstanceID, types.InstanceStateNameRunning)
		instance.State = nil
		mock := &MockEC2{Instances: []types.Instance{instance}}

		_, err := NewEC2ClientWithAPI(mock, "us-east-2").GetInstance(ctx, testInstanceID)
		r.ErrorContains(err, "no state")
	})
}

func TestStartStopInstance(t *testing.T) {
	ctx := context.Background()

	t.Run("start", func(t *testing.T) {
		r := require.New(t)
		mock := &MockEC2{}

		state, err := NewEC2ClientWithAPI(mock, "us-east-2").StartInstance(ctx, testInstanceID)
		r.NoError(err)
		r.Equal(models.StatePending, state)
		r.Equal(1, mock.StartCalls)
		r.Zero(mock.StopCalls)
	})

	t.Run("stop", func(t *testing.T) {
		r := require.New(t)
		mock := &MockEC2{}

		state, err := NewEC2ClientWithAPI(mock, "us-east-2").StopInstance(ctx, testInstanceID)
		r.NoError(err)
		r.Equal(models.StateStopping, state)
		r.Equal(1, mock.StopCalls)
		r.Zero(mock.StartCalls)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		r := require.New(t)
		cause := errors.New("boom")
		mock := &MockEC2{StartErr: cause, StopErr: cause}
		client := NewEC2ClientWithAPI(mock, "us-east-2")

		_, err := client.StartInstance(ctx, testInstanceID)
		r.ErrorIs(err, cause)
		_, err = client.StopInstance(ctx, testInstanceID)
		r.ErrorIs(err, cause)
		r.Equal("", APIErrorCode(err))
	})
}
