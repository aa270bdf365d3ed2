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

// Package bootselect reads and updates the boot selection record kept on
// the bootselect partition of an eMMC device.
package bootselect

import (
	"errors"
	"time"

	"github.com/canonical/bootselect/internals/logger"
	"github.com/canonical/bootselect/internals/mmc"
	"github.com/canonical/bootselect/internals/osutil"
	"github.com/canonical/bootselect/internals/volume"
)

const (
	DefaultMountPoint     = "/bootselect"
	DefaultFSType         = "emmc"
	DefaultSysfsBlockRoot = "/sys/block/mmcblk0"
	DefaultRawDevice      = "/dev/block/mmcblk0"

	DefaultWaitAttempts = 10
	DefaultWaitInterval = time.Second
)

// VolumeTable looks up volumes by mount point. *volume.Table implements it.
type VolumeTable interface {
	ForPath(mountPoint string) (*volume.Volume, bool)
}

// Options configures a Manager. Zero fields take the Default* values.
type Options struct {
	// Volumes is required.
	Volumes VolumeTable

	MountPoint     string
	FSType         string
	SysfsBlockRoot string
	RawDevice      string

	// WaitForDevice blocks until the given device node exists. Its
	// failure is logged and otherwise ignored, as the following open
	// reports the real problem.
	WaitForDevice func(path string) error
	// OpenDevice opens the raw device for issuing MMC commands.
	OpenDevice func(path string) (mmc.Device, error)
}

// Manager performs boot selection record operations against one device.
// It holds no state between operations.
type Manager struct {
	volumes VolumeTable

	mountPoint     string
	fsType         string
	sysfsBlockRoot string
	rawDevice      string

	waitForDevice func(path string) error
	openDevice    func(path string) (mmc.Device, error)
}

// New returns a Manager for the given options.
func New(opts *Options) (*Manager, error) {
	if opts == nil || opts.Volumes == nil {
		return nil, errors.New("internal error: bootselect manager needs a volume table")
	}
	m := &Manager{
		volumes:        opts.Volumes,
		mountPoint:     opts.MountPoint,
		fsType:         opts.FSType,
		sysfsBlockRoot: opts.SysfsBlockRoot,
		rawDevice:      opts.RawDevice,
		waitForDevice:  opts.WaitForDevice,
		openDevice:     opts.OpenDevice,
	}
	if m.mountPoint == "" {
		m.mountPoint = DefaultMountPoint
	}
	if m.fsType == "" {
		m.fsType = DefaultFSType
	}
	if m.sysfsBlockRoot == "" {
		m.sysfsBlockRoot = DefaultSysfsBlockRoot
	}
	if m.rawDevice == "" {
		m.rawDevice = DefaultRawDevice
	}
	if m.waitForDevice == nil {
		m.waitForDevice = func(path string) error {
			return osutil.WaitForDevice(path, DefaultWaitAttempts, DefaultWaitInterval)
		}
	}
	if m.openDevice == nil {
		m.openDevice = openBlockDevice
	}
	return m, nil
}

func openBlockDevice(path string) (mmc.Device, error) {
	dev, err := mmc.Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// MountPoint returns the mount point the record volume is looked up by.
func (m *Manager) MountPoint() string {
	return m.mountPoint
}

// Info returns the current boot selection record.
func (m *Manager) Info() (*Record, error) {
	return m.ReadRecord(m.mountPoint)
}

// ClearFormatBit clears the format request in the stored record, leaving
// every other field and bit untouched. It is idempotent.
func (m *Manager) ClearFormatBit() error {
	r, v, err := m.readVolumeRecord(m.mountPoint)
	if err != nil {
		return failf(ErrorRead, err, "cannot get boot selection record")
	}
	r.ClearFormatBit()
	if err := m.WriteRecordReliable(v, r); err != nil {
		return failf(ErrorWrite, err, "cannot set boot selection record")
	}
	return nil
}

func (m *Manager) lookupVolume(mountPoint string) (*volume.Volume, error) {
	v, ok := m.volumes.ForPath(mountPoint)
	if !ok {
		return nil, failf(ErrorVolumeNotFound, nil, "cannot find volume for %q", mountPoint)
	}
	return v, nil
}

// waitFor waits for the device node but carries on regardless.
func (m *Manager) waitFor(path string) {
	if err := m.waitForDevice(path); err != nil {
		logger.Debugf("Device %s not ready, trying anyway: %v", path, err)
	}
}
