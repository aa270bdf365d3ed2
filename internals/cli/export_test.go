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

package cli

import (
	"fmt"

	"github.com/canonical/go-flags"

	cmdpkg "github.com/canonical/bootselect/cmd"
	"github.com/canonical/bootselect/internals/config"
	"github.com/canonical/bootselect/internals/mmc"
)

var (
	GetConfigPath = getConfigPath
	Hex32         = hex32
	ErrAborted    = errAborted
)

func ParserForTest(cfg *config.Config) *flags.Parser {
	return Parser(&ParserOptions{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
	})
}

func FakeVersion(version string) (restore func()) {
	old := cmdpkg.Version
	cmdpkg.Version = version
	return func() {
		cmdpkg.Version = old
	}
}

func FakeOpenDevice(f func(path string) (mmc.Device, error)) (restore func()) {
	old := openDevice
	openDevice = f
	return func() {
		openDevice = old
	}
}

func FakeNoticef(f func(format string, v ...any)) (restore func()) {
	old := noticef
	noticef = f
	return func() {
		noticef = old
	}
}

func FakeIsStdinTTY(t bool) (restore func()) {
	oldIsStdinTTY := isStdinTTY
	isStdinTTY = t
	return func() {
		isStdinTTY = oldIsStdinTTY
	}
}

// BootselectMain runs the command line like main does, and returns the
// exit code instead of exiting.
func BootselectMain() (exitCode int) {
	oldOsExit := osExit
	osExit = func(code int) {
		panic(&exitStatus{code})
	}
	defer func() {
		osExit = oldOsExit
		if v := recover(); v != nil {
			if e, ok := v.(*exitStatus); ok {
				exitCode = e.code
			} else {
				panic(v)
			}
		}
	}()
	if err := Run(DefaultRunOptions()); err != nil {
		fmt.Fprintf(Stderr, "error: %v\n", err)
		osExit(1)
	}
	return
}
