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

// Package volume reads the recovery volume table, which maps mount points
// to the block devices and filesystem types that back them.
package volume

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonical/x-go/strutil/shlex"
)

// Volume is a single entry of the volume table.
type Volume struct {
	// BlockDevice is the device node backing the volume, often a
	// by-name symlink.
	BlockDevice string
	// MountPoint identifies the volume, for example "/bootselect".
	MountPoint string
	// FSType is "emmc" for raw partitions that carry no filesystem.
	FSType string

	MountFlags string
	FSMgrFlags string
}

// Table holds the volumes in the order they were listed.
type Table struct {
	volumes []*Volume
}

// Load reads and parses the volume table at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open volume table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse volume table %q: %w", path, err)
	}
	return t, nil
}

// Parse parses an fstab-style volume table:
//
//	<blk_device> <mount_point> <fs_type> [<mnt_flags> [<fs_mgr_flags>]]
//
// Blank lines and lines starting with '#' are ignored.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 fields, got %d", lineno, len(fields))
		}
		v := &Volume{
			BlockDevice: fields[0],
			MountPoint:  filepath.Clean(fields[1]),
			FSType:      fields[2],
		}
		if len(fields) > 3 {
			v.MountFlags = fields[3]
		}
		if len(fields) > 4 {
			v.FSMgrFlags = fields[4]
		}
		t.volumes = append(t.volumes, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Volumes returns all the entries of the table.
func (t *Table) Volumes() []*Volume {
	return t.volumes
}

// ForPath returns the volume mounted at mountPoint. The first matching
// entry wins.
func (t *Table) ForPath(mountPoint string) (*Volume, bool) {
	mountPoint = filepath.Clean(mountPoint)
	for _, v := range t.volumes {
		if v.MountPoint == mountPoint {
			return v, true
		}
	}
	return nil, false
}
