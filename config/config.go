package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	coretypes "github.com/projecteru2/core/types"
)

// ErrToolMissing is returned by Validate when VBoxManage is absent or not
// executable.
var ErrToolMissing = errors.New("VBoxManage unavailable")

// Config holds global vboxctl configuration. It is built once per invocation
// and passed explicitly to every component.
type Config struct {
	// VBoxManage is the path to the management binary.
	VBoxManage string `json:"vboxmanage" mapstructure:"vboxmanage"`
	// UIBinary is launched detached by `start --type sdl` and `pick`.
	UIBinary string `json:"ui_binary" mapstructure:"ui_binary"`
	// VMDir is the base folder new VMs and their disks are created in.
	VMDir string `json:"vm_dir" mapstructure:"vm_dir"`

	DefaultOSType string `json:"default_ostype" mapstructure:"default_ostype"`
	DefaultMemory string `json:"default_memory" mapstructure:"default_memory"` // e.g. "1G"
	DefaultCPUs   int    `json:"default_cpus" mapstructure:"default_cpus"`
	DefaultVRAM   int    `json:"default_vram" mapstructure:"default_vram"` // MiB
	DiskSize      string `json:"disk_size" mapstructure:"disk_size"`       // e.g. "32G"
	DiskFile      string `json:"disk_file" mapstructure:"disk_file"`
	// Bridge is the host interface for bridged networking; empty means NAT.
	Bridge string `json:"bridge" mapstructure:"bridge"`

	// StopTimeoutSeconds bounds how long --wait polls for a VM to leave the
	// running state.
	StopTimeoutSeconds int `json:"stop_timeout_seconds" mapstructure:"stop_timeout_seconds"`
	PollIntervalMillis int `json:"poll_interval_ms" mapstructure:"poll_interval_ms"`

	// LockFile serialises mutating operations across vboxctl processes.
	LockFile string `json:"lock_file" mapstructure:"lock_file"`
	// AssumeYes answers every confirmation prompt with yes.
	AssumeYes bool `json:"assume_yes" mapstructure:"assume_yes"`

	// Log configuration, uses eru core's ServerLogConfig.
	Log coretypes.ServerLogConfig `json:"log" mapstructure:"log"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		VBoxManage:         "/usr/bin/VBoxManage",
		UIBinary:           "/usr/bin/VBoxSDL",
		VMDir:              filepath.Join(home, "VirtualBox VMs"),
		DefaultOSType:      "Other_64",
		DefaultMemory:      "1G",
		DefaultCPUs:        1,
		DefaultVRAM:        48, //nolint:mnd
		DiskSize:           "32G",
		DiskFile:           "hdd.vdi",
		StopTimeoutSeconds: 60,  //nolint:mnd
		PollIntervalMillis: 500, //nolint:mnd
		LockFile:           defaultLockFile(),
		Log: coretypes.ServerLogConfig{
			Level:      "info",
			MaxSize:    500,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}

// Normalize fills zero values left by a partial config file.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.VBoxManage == "" {
		c.VBoxManage = def.VBoxManage
	}
	if c.UIBinary == "" {
		c.UIBinary = def.UIBinary
	}
	if c.VMDir == "" {
		c.VMDir = def.VMDir
	}
	if c.DefaultOSType == "" {
		c.DefaultOSType = def.DefaultOSType
	}
	if c.DefaultMemory == "" {
		c.DefaultMemory = def.DefaultMemory
	}
	if c.DefaultCPUs <= 0 {
		c.DefaultCPUs = def.DefaultCPUs
	}
	if c.DefaultVRAM <= 0 {
		c.DefaultVRAM = def.DefaultVRAM
	}
	if c.DiskSize == "" {
		c.DiskSize = def.DiskSize
	}
	if c.DiskFile == "" {
		c.DiskFile = def.DiskFile
	}
	if c.StopTimeoutSeconds <= 0 {
		c.StopTimeoutSeconds = def.StopTimeoutSeconds
	}
	if c.PollIntervalMillis <= 0 {
		c.PollIntervalMillis = def.PollIntervalMillis
	}
	if c.LockFile == "" {
		c.LockFile = def.LockFile
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks that VBoxManage exists and is executable.
func (c *Config) Validate() error {
	st, err := os.Stat(c.VBoxManage)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrToolMissing, c.VBoxManage)
		}
		return fmt.Errorf("%w: %v", ErrToolMissing, err)
	}
	if st.IsDir() || st.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s is not executable", ErrToolMissing, c.VBoxManage)
	}
	return nil
}

// StopTimeout is how long a --wait poll may last.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.StopTimeoutSeconds) * time.Second
}

// PollInterval is the delay between state polls.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

func defaultLockFile() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "vboxctl.lock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("vboxctl-%d.lock", os.Getuid()))
}
