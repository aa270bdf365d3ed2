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
	"github.com/canonical/bootselect/internals/mmc"
	"github.com/canonical/bootselect/internals/volume"
)

// WriteRecordReliable writes r to the first sector of the volume's
// partition using an eMMC reliable write, so that the sector holds either
// the old or the new record after a power loss.
func (m *Manager) WriteRecordReliable(v *volume.Volume, r *Record) error {
	data, err := r.MarshalBinary()
	if err != nil {
		return failf(ErrorWrite, err, "cannot encode boot selection record")
	}
	return m.writeBlock(v, data)
}

// writeBlock writes data, zero padded to a full block, to the first block
// of the volume's partition. Nothing touches the device if data does not
// fit in one block.
func (m *Manager) writeBlock(v *volume.Volume, data []byte) error {
	if len(data) > BlockSize {
		return failf(ErrorRecordTooLarge, nil, "cannot write %d bytes: larger than block size %d", len(data), BlockSize)
	}
	block := make([]byte, BlockSize)
	copy(block, data)

	m.waitFor(v.BlockDevice)

	offset, err := m.PartitionOffset(v)
	if err != nil {
		return err
	}

	dev, err := m.openDevice(m.rawDevice)
	if err != nil {
		return failf(ErrorOpen, err, "cannot open raw device")
	}
	defer dev.Close()

	if _, err := dev.Issue(mmc.SetBlockCount{Blocks: 1, Reliable: true}); err != nil {
		return failf(ErrorDeviceCommand, err, "cannot prepare reliable write")
	}
	if _, err := dev.Issue(mmc.WriteBlock{Address: offset, Data: block}); err != nil {
		return failf(ErrorDeviceCommand, err, "cannot write boot selection block")
	}
	return nil
}
