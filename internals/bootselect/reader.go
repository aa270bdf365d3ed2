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

package bootselect

import (
	"io"
	"os"

	"github.com/canonical/bootselect/internals/volume"
)

// ReadRecord reads the record from the start of the volume mounted at
// mountPoint. The partition is opened exclusively and read only.
func (m *Manager) ReadRecord(mountPoint string) (*Record, error) {
	r, _, err := m.readVolumeRecord(mountPoint)
	return r, err
}

func (m *Manager) readVolumeRecord(mountPoint string) (*Record, *volume.Volume, error) {
	v, err := m.lookupVolume(mountPoint)
	if err != nil {
		return nil, nil, err
	}
	if v.FSType != m.fsType {
		return nil, nil, failf(ErrorUnsupportedFSType, nil, "cannot use volume %q: unsupported fs type %q", mountPoint, v.FSType)
	}

	m.waitFor(v.BlockDevice)

	f, err := os.OpenFile(v.BlockDevice, os.O_RDONLY|os.O_EXCL, 0)
	if err != nil {
		return nil, nil, failf(ErrorOpen, err, "cannot open boot selection volume")
	}
	defer f.Close()

	buf := make([]byte, RecordSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, nil, failf(ErrorRead, err, "cannot read boot selection record from %s", v.BlockDevice)
	}
	r := &Record{}
	if err := r.UnmarshalBinary(buf); err != nil {
		return nil, nil, failf(ErrorRead, err, "cannot read boot selection record from %s", v.BlockDevice)
	}
	return r, v, nil
}
