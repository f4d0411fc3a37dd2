package models

import "time"

// InstanceState is the lifecycle phase reported by EC2 for an instance
type InstanceState string

const (
	StatePending      InstanceState = "pending"
	StateRunning      InstanceState = "running"
	StateStopping     InstanceState = "stopping"
	StateStopped      InstanceState = "stopped"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
)

// States lists the lifecycle states the failover toggle works with
var States = []InstanceState{StatePending, StateRunning, StateStopping, StateStopped}

// IsUp reports whether the instance is serving. Only running counts,
// transitional states are treated as down.
func (s InstanceState) IsUp() bool {
	return s == StateRunning
}

// IsTransitional reports whether the instance is between power states
func (s InstanceState) IsTransitional() bool {
	return s == StatePending || s == StateStopping || s == StateShuttingDown
}

// InstanceInfo represents EC2 instance information
type InstanceInfo struct {
	InstanceID       string
	Name             string
	InstanceType     string
	Region           string
	AvailabilityZone string
	PublicIP         string
	State            InstanceState
	LaunchTime       time.Time
	StateChangedAt   *time.Time // parsed from StateTransitionReason, nil if unknown
}
