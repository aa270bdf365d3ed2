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

import "unsafe"

// IocCmdView exposes the fields of an iocCmd to tests.
type IocCmdView struct {
	WriteFlag int32
	Opcode    uint32
	Arg       uint32
	Flags     uint32
	Blksz     uint32
	Blocks    uint32
	DataPtr   uint64
}

var SizeofIocCmd = unsafe.Sizeof(iocCmd{})

func viewOf(ic *iocCmd) IocCmdView {
	return IocCmdView{
		WriteFlag: ic.writeFlag,
		Opcode:    ic.opcode,
		Arg:       ic.arg,
		Flags:     ic.flags,
		Blksz:     ic.blksz,
		Blocks:    ic.blocks,
		DataPtr:   ic.dataPtr,
	}
}

func NewIocCmdView(raw Raw) IocCmdView {
	ic := newIocCmd(raw)
	return viewOf(&ic)
}
