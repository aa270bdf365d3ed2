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

package osutil_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	. "gopkg.in/check.v1"

	"github.com/canonical/bootselect/internals/logger"
	"github.com/canonical/bootselect/internals/osutil"
)

type deviceSuite struct {
	logbuf fmt.Stringer
	sleeps []time.Duration

	restoreLogger func()
	restoreSleep  func()
}

var _ = Suite(&deviceSuite{})

func (s *deviceSuite) SetUpTest(c *C) {
	s.sleeps = nil
	s.logbuf, s.restoreLogger = logger.MockLogger("")
	s.restoreSleep = osutil.FakeTimeSleep(func(d time.Duration) {
		s.sleeps = append(s.sleeps, d)
	})
}

func (s *deviceSuite) TearDownTest(c *C) {
	s.restoreSleep()
	s.restoreLogger()
}

func (s *deviceSuite) TestWaitForDevicePresent(c *C) {
	node := filepath.Join(c.MkDir(), "mmcblk0p7")
	c.Assert(os.WriteFile(node, nil, 0644), IsNil)

	err := osutil.WaitForDevice(node, 10, time.Second)
	c.Assert(err, IsNil)
	c.Check(s.sleeps, HasLen, 0)
	c.Check(s.logbuf.String(), Equals, "")
}

func (s *deviceSuite) TestWaitForDeviceAppears(c *C) {
	node := filepath.Join(c.MkDir(), "mmcblk0p7")
	restore := osutil.FakeTimeSleep(func(d time.Duration) {
		s.sleeps = append(s.sleeps, d)
		if len(s.sleeps) == 2 {
			c.Assert(os.WriteFile(node, nil, 0644), IsNil)
		}
	})
	defer restore()

	err := osutil.WaitForDevice(node, 10, 250*time.Millisecond)
	c.Assert(err, IsNil)
	c.Check(s.sleeps, DeepEquals, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond})
	c.Check(s.logbuf.String(), Matches, `(?s).*Cannot stat ".*mmcblk0p7" \(try 1\).*\(try 2\).*`)
}

func (s *deviceSuite) TestWaitForDeviceGivesUp(c *C) {
	node := filepath.Join(c.MkDir(), "missing")

	err := osutil.WaitForDevice(node, 3, time.Second)
	c.Assert(err, ErrorMatches, `cannot find device ".*missing" after 3 attempts: .*no such file or directory`)
	c.Check(errors.Is(err, os.ErrNotExist), Equals, true)
	c.Check(s.sleeps, HasLen, 2)
}

func (s *deviceSuite) TestWaitForDeviceAtLeastOnce(c *C) {
	node := filepath.Join(c.MkDir(), "missing")

	err := osutil.WaitForDevice(node, 0, time.Second)
	c.Assert(err, ErrorMatches, `cannot find device ".*" after 1 attempts: .*`)
	c.Check(s.sleeps, HasLen, 0)
}
