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

package mmc

import (
	"unsafe"
)

// iocCmd mirrors struct mmc_ioc_cmd from linux/mmc/ioctl.h.
type iocCmd struct {
	writeFlag int32
	isAcmd    int32
	opcode    uint32
	arg       uint32
	response  [4]uint32
	flags     uint32
	blksz     uint32
	blocks    uint32

	postsleepMinUs uint32
	postsleepMaxUs uint32
	dataTimeoutNs  uint32
	cmdTimeoutMs   uint32
	_              uint32
	dataPtr        uint64
}

const (
	mmcBlockMajor = 179

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

func iowr(typ, nr, size uintptr) uintptr {
	return (iocRead|iocWrite)<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

// IocCmd is MMC_IOC_CMD, _IOWR(MMC_BLOCK_MAJOR, 0, struct mmc_ioc_cmd).
var IocCmd = iowr(mmcBlockMajor, 0, unsafe.Sizeof(iocCmd{}))

// newIocCmd fills an iocCmd from raw. The data pointer is left unset; it
// must be attached right before the ioctl while raw.Data is kept alive.
func newIocCmd(raw Raw) iocCmd {
	ic := iocCmd{
		opcode: raw.Opcode,
		arg:    raw.Arg,
		flags:  raw.Flags,
		blksz:  raw.BlockSize,
		blocks: raw.Blocks,
	}
	if raw.Write {
		ic.writeFlag = 1
	}
	return ic
}
