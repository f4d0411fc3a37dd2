package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BootWaitMode string

const (
	// BootWaitPoll polls the instance state with backoff until it is running.
	BootWaitPoll BootWaitMode = "poll"
	// BootWaitFixed sleeps for BootWait without looking at the instance.
	BootWaitFixed BootWaitMode = "fixed"
)

const (
	DefaultRegion = "us-east-2"
	EnvPrefix     = "FAILOVER"
)

type Config struct {
	InstanceID string `envconfig:"INSTANCE_ID" default:"i-034f6c3491e1661a4"`
	// Region is optional, the AWS SDK chain and IMDS are consulted first.
	Region    string `envconfig:"REGION"`
	TargetURL string `envconfig:"TARGET_URL" default:"http://www.cos3.rocks/index.html"`

	KeyFile string `envconfig:"KEY_FILE" default:"qa-cos3.pem"`
	Home    string `envconfig:"HOME_DIR"`

	RemoteUser    string        `envconfig:"REMOTE_USER" default:"ubuntu"`
	RemoteHost    string        `envconfig:"REMOTE_HOST" default:"18.221.85.157"`
	RemoteCommand string        `envconfig:"REMOTE_COMMAND" default:"/usr/bin/sudo ./webserver.py -i 172.31.28.197  >/dev/null 2>&1 &"`
	SSHBinary     string        `envconfig:"SSH_BINARY" default:"/usr/bin/ssh"`
	SSHTimeout    time.Duration `envconfig:"SSH_TIMEOUT" default:"2m"`

	BootWaitMode    BootWaitMode  `envconfig:"BOOT_WAIT_MODE" default:"poll"`
	BootWait        time.Duration `envconfig:"BOOT_WAIT" default:"150s"`
	BootTimeout     time.Duration `envconfig:"BOOT_TIMEOUT" default:"5m"`
	BootMaxTries    uint          `envconfig:"BOOT_MAX_TRIES" default:"20"`
	BootSettle      time.Duration `envconfig:"BOOT_SETTLE" default:"30s"`
	StrictBootstrap bool          `envconfig:"STRICT_BOOTSTRAP" default:"false"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.InstanceID == "" {
		return fmt.Errorf("%s_INSTANCE_ID must not be empty", EnvPrefix)
	}
	if c.KeyFile == "" {
		return fmt.Errorf("%s_KEY_FILE must not be empty", EnvPrefix)
	}
	if c.RemoteHost == "" || c.RemoteUser == "" {
		return fmt.Errorf("%s_REMOTE_USER and %s_REMOTE_HOST must not be empty", EnvPrefix, EnvPrefix)
	}
	switch c.BootWaitMode {
	case BootWaitPoll:
		if c.BootMaxTries == 0 {
			return fmt.Errorf("%s_BOOT_MAX_TRIES must be greater than zero", EnvPrefix)
		}
	case BootWaitFixed:
	default:
		return fmt.Errorf("unknown %s_BOOT_WAIT_MODE %q, expected %q or %q", EnvPrefix, c.BootWaitMode, BootWaitPoll, BootWaitFixed)
	}
	if c.SSHTimeout <= 0 {
		return fmt.Errorf("%s_SSH_TIMEOUT must be positive", EnvPrefix)
	}
	return nil
}
