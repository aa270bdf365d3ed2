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
	"fmt"

	"github.com/canonical/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/canonical/bootselect/internals/bootselect"
	"github.com/canonical/bootselect/internals/config"
)

const cmdShowSummary = "Show the boot selection record"
const cmdShowDescription = `
The show command reads the boot selection record from the bootselect
partition and displays its fields.
`

type cmdShow struct {
	loadConfig func() (*config.Config, error)

	Format string `long:"format" choice:"text" choice:"yaml" default:"text"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "show",
		Summary:     cmdShowSummary,
		Description: cmdShowDescription,
		ArgsHelp: map[string]string{
			"--format": "Output format",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdShow{loadConfig: opts.LoadConfig}
		},
	})
}

// recordInfo is the yaml form of a record.
type recordInfo struct {
	Signature       string `yaml:"signature"`
	Version         string `yaml:"version"`
	Valid           bool   `yaml:"valid"`
	BootPartition   uint32 `yaml:"boot-partition"`
	StateInfo       string `yaml:"state-info"`
	FormatRequested bool   `yaml:"format-requested"`
	Factory         bool   `yaml:"factory"`
}

func (cmd *cmdShow) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}

	m, err := newManager(cmd.loadConfig)
	if err != nil {
		return err
	}
	r, err := m.Info()
	if err != nil {
		return err
	}

	switch cmd.Format {
	case "", "text":
		printRecord(r)
	case "yaml":
		data, err := yaml.Marshal(&recordInfo{
			Signature:       hex32(r.Signature),
			Version:         hex32(r.Version),
			Valid:           r.Valid(),
			BootPartition:   r.BootPartition,
			StateInfo:       hex32(r.StateInfo),
			FormatRequested: r.FormatRequested(),
			Factory:         r.Factory(),
		})
		if err != nil {
			return err
		}
		Stdout.Write(data)
	default:
		panic(fmt.Sprintf("internal error: invalid output format %q", cmd.Format)) // already checked by go-flags
	}
	return nil
}

func printRecord(r *bootselect.Record) {
	valid := "valid"
	if !r.Valid() {
		valid = "invalid"
	}
	w := tabWriter()
	defer w.Flush()
	fmt.Fprintf(w, "Signature:\t%s (%s)\n", hex32(r.Signature), valid)
	fmt.Fprintf(w, "Version:\t%s\n", hex32(r.Version))
	fmt.Fprintf(w, "Boot partition:\t%d\n", r.BootPartition)
	fmt.Fprintf(w, "State:\t%s\n", hex32(r.StateInfo))
	fmt.Fprintf(w, "Format requested:\t%t\n", r.FormatRequested())
	fmt.Fprintf(w, "Factory:\t%t\n", r.Factory())
}
