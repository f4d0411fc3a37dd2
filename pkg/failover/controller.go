package failover

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/failover/internal/logging"
	"github.com/younsl/failover/internal/models"
	"github.com/younsl/failover/pkg/utils"
)

// InstanceAPI reads and toggles the power state of an instance
type InstanceAPI interface {
	GetInstance(ctx context.Context, instanceID string) (models.InstanceInfo, error)
	StartInstance(ctx context.Context, instanceID string) (models.InstanceState, error)
	StopInstance(ctx context.Context, instanceID string) (models.InstanceState, error)
}

// Bootstrapper brings services up on a freshly started instance
type Bootstrapper interface {
	Bootstrap(ctx context.Context, instance models.InstanceInfo) error
}

// Controller flips the monitored instance between up and down
type Controller struct {
	api        InstanceAPI
	boot       Bootstrapper
	instanceID string
	region     string
	log        *logging.Logger
	now        func() time.Time
}

func NewController(api InstanceAPI, boot Bootstrapper, instanceID, region string, log *logging.Logger) *Controller {
	return &Controller{
		api:        api,
		boot:       boot,
		instanceID: instanceID,
		region:     region,
		log:        log,
		now:        time.Now,
	}
}

// Probe reads the current state of the instance once
func (c *Controller) Probe(ctx context.Context) (models.InstanceInfo, error) {
	c.log.Debugf("Checking instance ID: %s", c.instanceID)

	info, err := c.api.GetInstance(ctx, c.instanceID)
	if err != nil {
		return models.InstanceInfo{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}

	c.log.Debugf("Server State: %s", info.State)
	switch {
	case info.State.IsUp() && !info.LaunchTime.IsZero():
		c.log.Debugf("Launched %s", humanize.RelTime(info.LaunchTime, c.now(), "ago", "from now"))
	case info.StateChangedAt != nil:
		c.log.Debugf("In state %s since %s", info.State, humanize.RelTime(*info.StateChangedAt, c.now(), "ago", "from now"))
	}
	return info, nil
}

// Run probes the instance and stops it when it is up or starts and
// bootstraps it otherwise. It returns the action that was taken.
func (c *Controller) Run(ctx context.Context) (models.Action, error) {
	info, err := c.Probe(ctx)
	if err != nil {
		return models.ActionNone, err
	}

	regionName := utils.GetRegionDescriptiveName(c.region)

	if info.State.IsUp() {
		c.log.Infof("Stopping %s EC2 instance", regionName)
		state, err := c.api.StopInstance(ctx, c.instanceID)
		if err != nil {
			return models.ActionStop, newSwitchError(string(models.ActionStop), c.instanceID, err)
		}
		c.log.Debugf("Instance %s is now %s", c.instanceID, state)
		c.log.Info("Done. It may take a few minutes to observe the route change.")
		return models.ActionStop, nil
	}

	if info.State.IsTransitional() {
		c.log.Infof("Instance %s is %s, starting it anyway", c.instanceID, info.State)
	}

	c.log.Infof("Starting %s instances", regionName)
	state, err := c.api.StartInstance(ctx, c.instanceID)
	if err != nil {
		return models.ActionStart, newSwitchError(string(models.ActionStart), c.instanceID, err)
	}
	c.log.Debugf("Instance %s is now %s", c.instanceID, state)

	info.State = state
	if err := c.boot.Bootstrap(ctx, info); err != nil {
		return models.ActionStart, err
	}
	return models.ActionStart, nil
}
