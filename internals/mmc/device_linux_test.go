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

//go:build linux

package mmc_test

import (
	"errors"
	"os"
	"path/filepath"

	. "gopkg.in/check.v1"
	"golang.org/x/sys/unix"

	"github.com/canonical/bootselect/internals/mmc"
)

type deviceSuite struct {
	node string
}

var _ = Suite(&deviceSuite{})

func (s *deviceSuite) SetUpTest(c *C) {
	s.node = filepath.Join(c.MkDir(), "mmcblk0")
	err := os.WriteFile(s.node, make([]byte, 4096), 0644)
	c.Assert(err, IsNil)
}

func (s *deviceSuite) TestOpenMissing(c *C) {
	_, err := mmc.Open(filepath.Join(c.MkDir(), "missing"))
	c.Assert(err, ErrorMatches, `open .*missing: no such file or directory`)
	c.Check(errors.Is(err, os.ErrNotExist), Equals, true)
}

func (s *deviceSuite) TestIssue(c *C) {
	var seen []mmc.IocCmdView
	restore := mmc.FakeIoctl(func(fd int, req uintptr, cmd mmc.IocCmdView, response *[4]uint32) unix.Errno {
		c.Check(req, Equals, mmc.IocCmd)
		seen = append(seen, cmd)
		response[0] = 0x900
		return 0
	})
	defer restore()

	dev, err := mmc.Open(s.node)
	c.Assert(err, IsNil)
	c.Check(dev.Path(), Equals, s.node)

	resp, err := dev.Issue(mmc.SetBlockCount{Blocks: 1, Reliable: true})
	c.Assert(err, IsNil)
	c.Check(resp[0], Equals, uint32(0x900))

	data := make([]byte, mmc.BlockSize)
	_, err = dev.Issue(mmc.WriteBlock{Address: 42, Data: data})
	c.Assert(err, IsNil)

	c.Assert(seen, HasLen, 2)
	c.Check(seen[0].Opcode, Equals, mmc.OpSetBlockCount)
	c.Check(seen[0].DataPtr, Equals, uint64(0))
	c.Check(seen[1].Opcode, Equals, mmc.OpWriteBlock)
	c.Check(seen[1].Arg, Equals, uint32(42))
	c.Check(seen[1].DataPtr, Not(Equals), uint64(0))

	c.Assert(dev.Close(), IsNil)
}

func (s *deviceSuite) TestIssueFails(c *C) {
	restore := mmc.FakeIoctl(func(fd int, req uintptr, cmd mmc.IocCmdView, response *[4]uint32) unix.Errno {
		response[0] = 0x80000
		return unix.ETIMEDOUT
	})
	defer restore()

	dev, err := mmc.Open(s.node)
	c.Assert(err, IsNil)
	defer dev.Close()

	_, err = dev.Issue(mmc.SetBlockCount{Blocks: 1, Reliable: true})
	c.Assert(err, ErrorMatches, `cannot send MMC_SET_BLOCK_COUNT \(error no: 110\) \(response: 524288\): connection timed out`)
	var cmdErr *mmc.CommandError
	c.Assert(errors.As(err, &cmdErr), Equals, true)
	c.Check(cmdErr.Opcode, Equals, mmc.OpSetBlockCount)
	c.Check(cmdErr.Errno, Equals, unix.ETIMEDOUT)
	c.Check(cmdErr.Response, Equals, uint32(0x80000))
}

func (s *deviceSuite) TestClose(c *C) {
	closed := 0
	restore := mmc.FakeUnixClose(func(fd int) error {
		closed++
		return unix.Close(fd)
	})
	defer restore()

	dev, err := mmc.Open(s.node)
	c.Assert(err, IsNil)
	c.Assert(dev.Close(), IsNil)
	c.Check(dev.Close(), ErrorMatches, "device already closed")
	c.Check(closed, Equals, 1)

	_, err = dev.Issue(mmc.SetBlockCount{Blocks: 1})
	c.Check(err, ErrorMatches, `cannot send MMC_SET_BLOCK_COUNT: device .* is closed`)
}
