package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/failover/internal/models"
	"github.com/younsl/failover/pkg/utils"
)

// EC2API is the subset of the EC2 client used to toggle an instance
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// ErrInstanceNotFound is returned when DescribeInstances has no match
var ErrInstanceNotFound = errors.New("instance not found")

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// NewEC2Client creates a new EC2Client from an already resolved AWS config
func NewEC2Client(cfg aws.Config) *EC2Client {
	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// NewEC2ClientWithAPI creates an EC2Client around any EC2API implementation
func NewEC2ClientWithAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{
		client: api,
		region: region,
	}
}

// Region returns the region the client talks to
func (c *EC2Client) Region() string {
	return c.region
}

// GetInstance returns the current state and details of one instance
func (c *EC2Client) GetInstance(ctx context.Context, instanceID string) (models.InstanceInfo, error) {
	input := &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	}

	result, err := c.client.DescribeInstances(ctx, input)
	if err != nil {
		return models.InstanceInfo{}, fmt.Errorf("error querying EC2 instance %s: %w", instanceID, err)
	}

	if len(result.Reservations) == 0 || len(result.Reservations[0].Instances) == 0 {
		return models.InstanceInfo{}, fmt.Errorf("EC2 instance %s: %w", instanceID, ErrInstanceNotFound)
	}

	instance := result.Reservations[0].Instances[0]
	if instance.State == nil || instance.State.Name == "" {
		return models.InstanceInfo{}, fmt.Errorf("EC2 instance %s has no state in response", instanceID)
	}
	return c.instanceInfo(instance), nil
}

// StartInstance asks EC2 to start the instance and returns the state it
// reported right after the call. It does not wait for the instance to boot.
func (c *EC2Client) StartInstance(ctx context.Context, instanceID string) (models.InstanceState, error) {
	result, err := c.client.StartInstances(ctx, &ec2.StartInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return "", fmt.Errorf("error starting EC2 instance %s: %w", instanceID, err)
	}
	return currentState(result.StartingInstances, instanceID), nil
}

// StopInstance asks EC2 to stop the instance. The stop is not awaited.
func (c *EC2Client) StopInstance(ctx context.Context, instanceID string) (models.InstanceState, error) {
	result, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return "", fmt.Errorf("error stopping EC2 instance %s: %w", instanceID, err)
	}
	return currentState(result.StoppingInstances, instanceID), nil
}

func (c *EC2Client) instanceInfo(instance types.Instance) models.InstanceInfo {
	info := models.InstanceInfo{
		InstanceID:   utils.SafeDeref(instance.InstanceId),
		Name:         utils.GetName(instance.Tags),
		InstanceType: string(instance.InstanceType),
		Region:       c.region,
		PublicIP:     utils.SafeDeref(instance.PublicIpAddress),
		State:        models.InstanceState(instance.State.Name),
		LaunchTime:   utils.SafeTime(instance.LaunchTime),
	}
	if instance.Placement != nil {
		info.AvailabilityZone = utils.SafeDeref(instance.Placement.AvailabilityZone)
	}
	if instance.StateTransitionReason != nil {
		info.StateChangedAt = utils.ParseStateTransitionTime(*instance.StateTransitionReason)
	}
	return info
}

func currentState(changes []types.InstanceStateChange, instanceID string) models.InstanceState {
	for _, change := range changes {
		if aws.ToString(change.InstanceId) == instanceID && change.CurrentState != nil {
			return models.InstanceState(change.CurrentState.Name)
		}
	}
	return ""
}
