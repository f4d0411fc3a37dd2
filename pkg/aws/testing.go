package aws

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// MockEC2 is an in-memory EC2API for tests.
type MockEC2 struct {
	Instances []types.Instance
	// States, when set, overrides the state of matched instances on
	// successive DescribeInstances calls. The last entry repeats.
	States []types.InstanceStateName

	DescribeErr error
	StartErr    error
	StopErr     error

	DescribeCalls int
	StartCalls    int
	StopCalls     int

	mu sync.Mutex
}

// NewMockInstance returns an instance with the fields the client reads.
func NewMockInstance(id string, state types.InstanceStateName) types.Instance {
	return types.Instance{
		InstanceId:            aws.String(id),
		InstanceType:          types.InstanceTypeT3Micro,
		PublicIpAddress:       aws.String("18.221.85.157"),
		LaunchTime:            aws.Time(time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)),
		StateTransitionReason: aws.String("User initiated (2025-04-01 12:34:56 GMT)"),
		Placement:             &types.Placement{AvailabilityZone: aws.String("us-east-2a")},
		State:                 &types.InstanceState{Name: state},
		Tags:                  []types.Tag{{Key: aws.String("Name"), Value: aws.String("ohio-web")}},
	}
}

func (m *MockEC2) DescribeInstances(ctx context.Context, input *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.DescribeCalls
	m.DescribeCalls++
	if m.DescribeErr != nil {
		return nil, m.DescribeErr
	}

	var matched []types.Instance
	for _, instance := range m.Instances {
		for _, id := range input.InstanceIds {
			if aws.ToString(instance.InstanceId) != id {
				continue
			}
			if len(m.States) > 0 {
				state := m.States[min(call, len(m.States)-1)]
				instance.State = &types.InstanceState{Name: state}
			}
			matched = append(matched, instance)
		}
	}

	out := &ec2.DescribeInstancesOutput{}
	if len(matched) > 0 {
		out.Reservations = []types.Reservation{{Instances: matched}}
	}
	return out, nil
}

func (m *MockEC2) StartInstances(ctx context.Context, input *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartCalls++
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	return &ec2.StartInstancesOutput{
		StartingInstances: stateChanges(input.InstanceIds, types.InstanceStateNameStopped, types.InstanceStateNamePending),
	}, nil
}

func (m *MockEC2) StopInstances(ctx context.Context, input *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StopCalls++
	if m.StopErr != nil {
		return nil, m.StopErr
	}
	return &ec2.StopInstancesOutput{
		StoppingInstances: stateChanges(input.InstanceIds, types.InstanceStateNameRunning, types.InstanceStateNameStopping),
	}, nil
}

func stateChanges(ids []string, previous, current types.InstanceStateName) []types.InstanceStateChange {
	changes := make([]types.InstanceStateChange, 0, len(ids))
	for _, id := range ids {
		changes = append(changes, types.InstanceStateChange{
			InstanceId:    aws.String(id),
			PreviousState: &types.InstanceState{Name: previous},
			CurrentState:  &types.InstanceState{Name: current},
		})
	}
	return changes
}
