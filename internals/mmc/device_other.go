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

//go:build !linux

package mmc

import (
	"errors"
)

// BlockDevice is an eMMC block device opened for raw commands.
type BlockDevice struct{}

// Open always fails: MMC_IOC_CMD only exists on Linux.
func Open(path string) (*BlockDevice, error) {
	return nil, errors.New("cannot open eMMC device on unsupported platform")
}

func (d *BlockDevice) Path() string { return "" }

func (d *BlockDevice) Issue(cmd Command) (Response, error) {
	return Response{}, errors.New("cannot send commands on unsupported platform")
}

func (d *BlockDevice) Close() error { return nil }
