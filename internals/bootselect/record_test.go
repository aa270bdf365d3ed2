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

package bootselect_test

import (
	"encoding/hex"

	. "gopkg.in/check.v1"

	"github.com/canonical/bootselect/internals/bootselect"
)

type recordSuite struct{}

var _ = Suite(&recordSuite{})

func (s *recordSuite) TestSignature(c *C) {
	c.Check(bootselect.RecordSignature, Equals, uint32(0x6c655342))
	c.Check(bootselect.RecordSize, Equals, 16)
	c.Check(bootselect.BlockSize, Equals, 512)
}

func (s *recordSuite) TestMarshal(c *C) {
	r := &bootselect.Record{
		Signature:     bootselect.RecordSignature,
		Version:       bootselect.RecordVersion,
		BootPartition: bootselect.BootSecondOS,
		StateInfo:     bootselect.FormatBit | bootselect.FactoryBit,
	}
	data, err := r.MarshalBinary()
	c.Assert(err, IsNil)
	c.Check(hex.EncodeToString(data), Equals, "4253656c"+"01000100"+"01000000"+"000000c0")

	var back bootselect.Record
	c.Assert(back.UnmarshalBinary(data), IsNil)
	c.Check(back, DeepEquals, *r)
	c.Check(back.Valid(), Equals, true)
}

func (s *recordSuite) TestUnmarshalBlock(c *C) {
	block := make([]byte, bootselect.BlockSize)
	copy(block, []byte("BSel\x01\x00\x01\x00\x00\x00\x00\x00\x00\x00\x00\x40"))
	block[100] = 0xff

	var r bootselect.Record
	c.Assert(r.UnmarshalBinary(block), IsNil)
	c.Check(r.Valid(), Equals, true)
	c.Check(r.BootPartition, Equals, bootselect.BootFirstOS)
	c.Check(r.Factory(), Equals, true)
	c.Check(r.FormatRequested(), Equals, false)
}

func (s *recordSuite) TestUnmarshalShort(c *C) {
	var r bootselect.Record
	err := r.UnmarshalBinary(make([]byte, 15))
	c.Check(err, ErrorMatches, "cannot decode boot selection record: expected 16 bytes, got 15")
}

func (s *recordSuite) TestValid(c *C) {
	r := bootselect.Record{Signature: bootselect.RecordSignature, Version: 2}
	c.Check(r.Valid(), Equals, false)
	r = bootselect.Record{Version: bootselect.RecordVersion}
	c.Check(r.Valid(), Equals, false)
}

func (s *recordSuite) TestBits(c *C) {
	r := bootselect.Record{StateInfo: 0x1234}
	r.SetFormatRequested(true)
	c.Check(r.StateInfo, Equals, uint32(0x80001234))
	r.SetFactory(true)
	c.Check(r.StateInfo, Equals, uint32(0xc0001234))
	c.Check(r.FormatRequested(), Equals, true)
	c.Check(r.Factory(), Equals, true)

	r.ClearFormatBit()
	c.Check(r.StateInfo, Equals, uint32(0x40001234))
	r.ClearFormatBit()
	c.Check(r.StateInfo, Equals, uint32(0x40001234))

	r.SetFactory(false)
	c.Check(r.StateInfo, Equals, uint32(0x1234))
}
