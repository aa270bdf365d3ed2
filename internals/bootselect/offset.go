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

package bootselect

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/canonical/bootselect/internals/logger"
	"github.com/canonical/bootselect/internals/volume"
)

// PartitionOffset returns the starting sector of the volume's partition on
// the raw device, as reported by sysfs.
func (m *Manager) PartitionOffset(v *volume.Volume) (uint32, error) {
	devPath, err := filepath.EvalSymlinks(v.BlockDevice)
	if err != nil {
		return 0, failf(ErrorOffsetResolution, err, "cannot resolve partition device")
	}
	node, ok := partitionNode(devPath)
	if !ok {
		return 0, failf(ErrorPartitionNotFound, nil, "cannot find partition node in %q", devPath)
	}

	startPath := filepath.Join(m.sysfsBlockRoot, node, "start")
	logger.Debugf("Reading partition start from %s", startPath)
	data, err := os.ReadFile(startPath)
	if err != nil {
		return 0, failf(ErrorOffsetResolution, err, "cannot read partition start")
	}
	start, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return 0, failf(ErrorOffsetResolution, err, "cannot parse partition start in %s", startPath)
	}
	return uint32(start), nil
}

// partitionNode returns the final element of a canonical device path, such
// as "mmcblk0p7" for "/dev/block/mmcblk0p7". The node must be preceded by
// at least one directory element, and a trailing separator leaves no node.
func partitionNode(devPath string) (string, bool) {
	if strings.HasSuffix(devPath, "/") {
		return "", false
	}
	elems := strings.FieldsFunc(devPath, func(r rune) bool { return r == '/' })
	if len(elems) < 2 {
		return "", false
	}
	return elems[len(elems)-1], true
}
