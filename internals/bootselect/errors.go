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
	"fmt"

	"github.com/canonical/bootselect/internals/logger"
)

// ErrorKind distinguishes the failures of boot selection operations.
type ErrorKind string

const (
	ErrorVolumeNotFound    ErrorKind = "volume-not-found"
	ErrorUnsupportedFSType ErrorKind = "unsupported-fs-type"
	ErrorOpen              ErrorKind = "open-error"
	ErrorRead              ErrorKind = "read-error"
	ErrorOffsetResolution  ErrorKind = "offset-resolution-error"
	ErrorPartitionNotFound ErrorKind = "partition-not-found"
	ErrorRecordTooLarge    ErrorKind = "record-too-large"
	ErrorDeviceCommand     ErrorKind = "device-command-error"
	ErrorWrite             ErrorKind = "write-error"
)

// Error is returned by all boot selection operations. None of them is
// retried internally.
type Error struct {
	Kind    ErrorKind
	Message string
	// Err is the underlying cause, if any: an OS error, an
	// *mmc.CommandError or another *Error.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, &Error{Kind: k}) finds any error of kind k in a chain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// failf builds an *Error and logs it before it is handed back.
func failf(kind ErrorKind, cause error, format string, v ...any) *Error {
	e := &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, v...),
		Err:     cause,
	}
	logger.Noticef("Error: %v", e)
	return e
}
