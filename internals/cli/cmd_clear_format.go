// Copyright (c) 2014-2026 Canonical Ltd
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
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/go-flags"

	"github.com/canonical/bootselect/internals/config"
)

const cmdClearFormatSummary = "Clear the format request"
const cmdClearFormatDescription = `
The clear-format command clears the format request bit of the boot
selection record, leaving every other field untouched. The record is
written back with a reliable write, so it is never left half updated.

When run from a terminal, it asks for confirmation unless --yes is given.
`

type cmdClearFormat struct {
	loadConfig func() (*config.Config, error)

	Yes bool `long:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "clear-format",
		Summary:     cmdClearFormatSummary,
		Description: cmdClearFormatDescription,
		ArgsHelp: map[string]string{
			"--yes": "Do not ask for confirmation",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdClearFormat{loadConfig: opts.LoadConfig}
		},
	})
}

var errAborted = errors.New("aborted")

func (cmd *cmdClearFormat) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}

	if !cmd.Yes && isStdinTTY {
		ok, err := confirm("Clear the format request of the boot selection record?")
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	m, err := newManager(cmd.loadConfig)
	if err != nil {
		return err
	}
	if err := m.ClearFormatBit(); err != nil {
		return err
	}
	fmt.Fprintln(Stdout, "Format request cleared.")
	return nil
}

// confirm asks question on Stdout and reads the answer from Stdin. Only
// "y" and "yes" are taken as agreement.
func confirm(question string) (bool, error) {
	fmt.Fprintf(Stdout, "%s [y/N] ", question)
	answer, err := bufio.NewReader(Stdin).ReadString('\n')
	if err != nil && answer == "" {
		return false, fmt.Errorf("cannot read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
