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

package mmc

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

var (
	unixOpen  = unix.Open
	unixClose = unix.Close
	ioctl     = func(fd int, req uintptr, arg unsafe.Pointer) unix.Errno {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		return errno
	}
)

// BlockDevice is an eMMC block device opened for raw commands.
type BlockDevice struct {
	path string
	fd   int
}

// Open opens the eMMC device node at path for reading and writing.
func Open(path string) (*BlockDevice, error) {
	fd, err := unixOpen(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &BlockDevice{path: path, fd: fd}, nil
}

// Path returns the device node the device was opened from.
func (d *BlockDevice) Path() string {
	return d.path
}

// Issue sends cmd through MMC_IOC_CMD.
func (d *BlockDevice) Issue(cmd Command) (Response, error) {
	if d.fd < 0 {
		return Response{}, fmt.Errorf("cannot send %s: device %s is closed", cmd, d.path)
	}
	raw := cmd.Raw()
	ic := newIocCmd(raw)
	if len(raw.Data) > 0 {
		ic.dataPtr = uint64(uintptr(unsafe.Pointer(&raw.Data[0])))
	}
	errno := ioctl(d.fd, IocCmd, unsafe.Pointer(&ic))
	runtime.KeepAlive(raw.Data)
	resp := Response(ic.response)
	if errno != 0 {
		return resp, &CommandError{
			Command:  cmd.String(),
			Opcode:   raw.Opcode,
			Errno:    errno,
			Response: ic.response[0],
		}
	}
	return resp, nil
}

// Close closes the device. Closing twice is an error.
func (d *BlockDevice) Close() error {
	if d.fd < 0 {
		return errors.New("device already closed")
	}
	err := unixClose(d.fd)
	d.fd = -1
	if err != nil {
		return &os.PathError{Op: "close", Path: d.path, Err: err}
	}
	return nil
}
