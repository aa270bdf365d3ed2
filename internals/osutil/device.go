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

package osutil

import (
	"fmt"
	"os"
	"time"

	"github.com/canonical/bootselect/internals/logger"
)

var timeSleep = time.Sleep

// WaitForDevice waits until the node at path can be stat'ed, trying at most
// attempts times and sleeping interval after each failure. Every failed
// attempt is logged. The error of the last attempt is returned if the node
// never shows up.
func WaitForDevice(path string, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for try := 1; try <= attempts; try++ {
		var st os.FileInfo
		st, err = os.Stat(path)
		if err == nil {
			if !IsDevice(st.Mode()) {
				logger.Debugf("%s is not a device node", path)
			}
			return nil
		}
		logger.Noticef("Cannot stat %q (try %d): %v", path, try, err)
		if try < attempts {
			timeSleep(interval)
		}
	}
	return fmt.Errorf("cannot find device %q after %d attempts: %w", path, attempts, err)
}
