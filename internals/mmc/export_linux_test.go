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
	"unsafe"

	"golang.org/x/sys/unix"
)

// FakeIoctl replaces the MMC_IOC_CMD syscall. The fake may fill in the
// response words.
func FakeIoctl(f func(fd int, req uintptr, cmd IocCmdView, response *[4]uint32) unix.Errno) (restore func()) {
	old := ioctl
	ioctl = func(fd int, req uintptr, arg unsafe.Pointer) unix.Errno {
		ic := (*iocCmd)(arg)
		return f(fd, req, viewOf(ic), &ic.response)
	}
	return func() {
		ioctl = old
	}
}

func FakeUnixClose(f func(fd int) error) (restore func()) {
	old := unixClose
	unixClose = f
	return func() {
		unixClose = old
	}
}
