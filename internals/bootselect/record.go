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
	"encoding/binary"
	"fmt"

	"github.com/canonical/bootselect/internals/mmc"
)

const (
	// RecordSignature is "BSel" packed little-endian.
	RecordSignature uint32 = 'B' | 'S'<<8 | 'e'<<16 | 'l'<<24
	RecordVersion   uint32 = 0x00010001

	// FormatBit requests a format of the user data on next boot.
	FormatBit uint32 = 1 << 31
	// FactoryBit marks the device as being in factory mode.
	FactoryBit uint32 = 1 << 30
)

// Values of Record.BootPartition.
const (
	BootFirstOS  uint32 = 0
	BootSecondOS uint32 = 1
)

const (
	// RecordSize is the encoded size of a Record.
	RecordSize = 16
	// BlockSize is the physical block size of the device. A record is
	// always written as one full block.
	BlockSize = mmc.BlockSize
)

// Record is the boot selection record found at the start of the bootselect
// partition. On disk it is four little-endian 32-bit words in field order.
type Record struct {
	Signature     uint32
	Version       uint32
	BootPartition uint32
	StateInfo     uint32
}

// MarshalBinary encodes the record into its RecordSize bytes.
func (r *Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint32(b[0:], r.Signature)
	binary.LittleEndian.PutUint32(b[4:], r.Version)
	binary.LittleEndian.PutUint32(b[8:], r.BootPartition)
	binary.LittleEndian.PutUint32(b[12:], r.StateInfo)
	return b, nil
}

// UnmarshalBinary decodes a record from the head of data. Anything after
// the first RecordSize bytes is ignored.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("cannot decode boot selection record: expected %d bytes, got %d", RecordSize, len(data))
	}
	r.Signature = binary.LittleEndian.Uint32(data[0:])
	r.Version = binary.LittleEndian.Uint32(data[4:])
	r.BootPartition = binary.LittleEndian.Uint32(data[8:])
	r.StateInfo = binary.LittleEndian.Uint32(data[12:])
	return nil
}

// Valid reports whether the signature and version are the known ones.
func (r *Record) Valid() bool {
	return r.Signature == RecordSignature && r.Version == RecordVersion
}

// FormatRequested reports whether the format bit is set.
func (r *Record) FormatRequested() bool {
	return r.StateInfo&FormatBit != 0
}

// Factory reports whether the factory bit is set.
func (r *Record) Factory() bool {
	return r.StateInfo&FactoryBit != 0
}

// SetFormatRequested sets or clears the format bit, asking the bootloader
// to format the user data on the next boot.
func (r *Record) SetFormatRequested(on bool) {
	r.setBit(FormatBit, on)
}

// SetFactory sets or clears the factory bit.
func (r *Record) SetFactory(on bool) {
	r.setBit(FactoryBit, on)
}

// ClearFormatBit clears the format bit and nothing else.
func (r *Record) ClearFormatBit() {
	r.StateInfo &^= FormatBit
}

func (r *Record) setBit(mask uint32, on bool) {
	if on {
		r.StateInfo |= mask
	} else {
		r.StateInfo &^= mask
	}
}
