// Copyright (c) 2026 Canonical Ltd
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License version 3 as
// published by the Free Software Foundation.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the bootselect configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/canonical/bootselect/internals/bootselect"
	"github.com/canonical/bootselect/internals/osutil"
)

const (
	// PathEnv overrides the location of the configuration file.
	PathEnv     = "BOOTSELECT_CONFIG"
	DefaultPath = "/etc/bootselect.yaml"

	DefaultVolumeTable = "/etc/recovery.fstab"
)

type Config struct {
	VolumeTable    string     `yaml:"volume-table"`
	MountPoint     string     `yaml:"mount-point"`
	FSType         string     `yaml:"fs-type"`
	SysfsBlockRoot string     `yaml:"sysfs-block-root"`
	RawDevice      string     `yaml:"raw-device"`
	DeviceWait     DeviceWait `yaml:"device-wait"`
}

// DeviceWait controls how long to wait for a device node to appear.
type DeviceWait struct {
	Attempts int      `yaml:"attempts"`
	Interval Duration `yaml:"interval"`
}

// FormatError is returned when the configuration file is malformed or
// holds invalid values.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		VolumeTable:    DefaultVolumeTable,
		MountPoint:     bootselect.DefaultMountPoint,
		FSType:         bootselect.DefaultFSType,
		SysfsBlockRoot: bootselect.DefaultSysfsBlockRoot,
		RawDevice:      bootselect.DefaultRawDevice,
		DeviceWait: DeviceWait{
			Attempts: bootselect.DefaultWaitAttempts,
			Interval: Duration{Value: bootselect.DefaultWaitInterval},
		},
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	exists, isDir, err := osutil.ExistsIsDir(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat config: %w", err)
	}
	if !exists {
		return Defaults(), nil
	}
	if isDir {
		return nil, fmt.Errorf("cannot load config: %q is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot load config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FormatError{
			Message: fmt.Sprintf("cannot parse config: %v", err),
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every path is set and the wait is sane.
func (c *Config) Validate() error {
	for _, f := range []struct {
		key   string
		value string
	}{
		{"volume-table", c.VolumeTable},
		{"mount-point", c.MountPoint},
		{"fs-type", c.FSType},
		{"sysfs-block-root", c.SysfsBlockRoot},
		{"raw-device", c.RawDevice},
	} {
		if f.value == "" {
			return &FormatError{
				Message: fmt.Sprintf("invalid config: %s must not be empty", f.key),
			}
		}
	}
	if c.DeviceWait.Attempts <= 0 {
		return &FormatError{
			Message: fmt.Sprintf("invalid config: device-wait attempts must be positive, got %d", c.DeviceWait.Attempts),
		}
	}
	if c.DeviceWait.Interval.Value < 0 {
		return &FormatError{
			Message: fmt.Sprintf("invalid config: device-wait interval must not be negative, got %s", c.DeviceWait.Interval.Value),
		}
	}
	return nil
}

// WaitForDevice waits for the node at path as configured.
func (c *Config) WaitForDevice(path string) error {
	return osutil.WaitForDevice(path, c.DeviceWait.Attempts, c.DeviceWait.Interval.Value)
}

// Duration is a time.Duration written as a Go duration string, such
// as "1s" or "250ms".
type Duration struct {
	Value time.Duration
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Value.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a YAML string")
	}
	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	d.Value = duration
	return nil
}
