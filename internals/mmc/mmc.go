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

// Package mmc issues raw commands to eMMC devices through the kernel's
// MMC_IOC_CMD interface.
package mmc

import (
	"fmt"
	"syscall"
)

// Command opcodes, from linux/mmc/mmc.h.
const (
	OpSetBlockCount uint32 = 23
	OpWriteBlock    uint32 = 24
)

// Response and command class flags, from linux/mmc/core.h.
const (
	RspPresent uint32 = 1 << 0
	Rsp136     uint32 = 1 << 1
	RspCRC     uint32 = 1 << 2
	RspBusy    uint32 = 1 << 3
	RspOpcode  uint32 = 1 << 4

	RspR1 = RspPresent | RspCRC | RspOpcode

	CmdAC   uint32 = 0 << 5
	CmdADTC uint32 = 1 << 5
)

// ReliableWrite is the SET_BLOCK_COUNT argument bit requesting that the
// following write is committed atomically.
const ReliableWrite uint32 = 1 << 31

// BlockSize is the size of a single transfer block.
const BlockSize = 512

// Raw holds the fields of a command as handed to the kernel.
type Raw struct {
	Write     bool
	Opcode    uint32
	Arg       uint32
	Flags     uint32
	BlockSize uint32
	Blocks    uint32
	Data      []byte
}

// Command is a command understood by an eMMC device. The only
// implementations are SetBlockCount and WriteBlock.
type Command interface {
	Raw() Raw
	String() string

	isCommand()
}

// SetBlockCount (CMD23) announces the number of blocks of the next
// transfer.
type SetBlockCount struct {
	Blocks   uint32
	Reliable bool
}

func (SetBlockCount) isCommand() {}

func (c SetBlockCount) Raw() Raw {
	arg := c.Blocks
	if c.Reliable {
		arg |= ReliableWrite
	}
	return Raw{
		Opcode: OpSetBlockCount,
		Arg:    arg,
		Flags:  RspR1 | CmdAC,
	}
}

func (c SetBlockCount) String() string {
	return "MMC_SET_BLOCK_COUNT"
}

// WriteBlock (CMD24) writes a single block at Address, which is expressed
// in the addressing unit of the device.
type WriteBlock struct {
	Address uint32
	Data    []byte
}

func (WriteBlock) isCommand() {}

func (c WriteBlock) Raw() Raw {
	return Raw{
		Write:     true,
		Opcode:    OpWriteBlock,
		Arg:       c.Address,
		Flags:     RspR1 | CmdADTC,
		BlockSize: BlockSize,
		Blocks:    1,
		Data:      c.Data,
	}
}

func (c WriteBlock) String() string {
	return "MMC_WRITE_BLOCK"
}

// Response is the raw response of the device to a command.
type Response [4]uint32

// Device is an eMMC device that commands can be issued to.
type Device interface {
	// Issue sends cmd to the device and waits for its response.
	Issue(cmd Command) (Response, error)
	// Close releases the device.
	Close() error
}

// CommandError is returned when the device rejects a command.
type CommandError struct {
	Command  string
	Opcode   uint32
	Errno    syscall.Errno
	Response uint32
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("cannot send %s (error no: %d) (response: %d): %v", e.Command, int(e.Errno), e.Response, e.Errno)
}

func (e *CommandError) Unwrap() error {
	return e.Errno
}
