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
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/canonical/go-flags"

	cmdpkg "github.com/canonical/bootselect/cmd"
	"github.com/canonical/bootselect/internals/config"
	"github.com/canonical/bootselect/internals/logger"
)

const cmdHelpSummary = "Show help about a command"
const cmdHelpDescription = `
The help command lists the available commands, or shows the options of
a single command when one is named.
`

type cmdHelp struct {
	parser *flags.Parser

	All        bool `long:"all"`
	Positional struct {
		Subs []string `positional-arg-name:"<command>"`
	} `positional-args:"yes"`
}

func init() {
	AddCommand(&CmdInfo{
		Name:        "help",
		Summary:     cmdHelpSummary,
		Description: cmdHelpDescription,
		ArgsHelp: map[string]string{
			"--all":     "Show a short summary of all commands",
			"<command>": "Command to show help for",
		},
		New: func(opts *CmdOptions) flags.Commander {
			return &cmdHelp{parser: opts.Parser}
		},
	})
}

// addHelp registers a hidden -h/--help option. Asked at the top level it
// prints the short help; after a command it prints that command's help.
func addHelp(parser *flags.Parser) error {
	var help struct {
		ShowHelp func() error `short:"h" long:"help"`
	}
	help.ShowHelp = func() error {
		// "bootselect --help show" would otherwise go on and run show.
		if parser.Command.Active == nil {
			return &flags.Error{Type: flags.ErrCommandRequired}
		}
		return &flags.Error{Type: flags.ErrHelp}
	}
	group, err := parser.AddGroup("Help Options", "", &help)
	if err != nil {
		return err
	}
	group.Hidden = true
	opt := parser.FindOptionByLongName("help")
	opt.Description = "Show this help message"
	opt.Hidden = true
	return nil
}

func (cmd cmdHelp) Execute(args []string) error {
	if len(args) > 0 {
		return ErrExtraArgs
	}
	if cmd.All {
		if len(cmd.Positional.Subs) > 0 {
			return fmt.Errorf("help accepts a command, or '--all', but not both.")
		}
		printLongHelp(cmd.parser)
		return nil
	}
	if len(cmd.Positional.Subs) == 0 {
		return &flags.Error{Type: flags.ErrCommandRequired}
	}

	active := cmd.parser.Command
	for _, name := range cmd.Positional.Subs {
		active = active.Find(name)
		if active == nil {
			return fmt.Errorf("unknown command %q, see '%s help'.", name, cmdpkg.ProgramName)
		}
	}
	// "bootselect help show" prints the same as "bootselect show --help".
	cmd.parser.Command.Active = active
	return &flags.Error{Type: flags.ErrHelp}
}

// HelpCategory groups related commands in the short help.
type HelpCategory struct {
	Label       string
	Description string
	Commands    []string
}

var HelpCategories = []HelpCategory{{
	Label:       "Info",
	Description: "help and version information",
	Commands:    []string{"help", "version"},
}, {
	Label:       "Record",
	Description: "inspect and update the boot selection record",
	Commands:    []string{"show", "clear-format"},
}}

var (
	HelpHeader = strings.TrimSpace(`
{{.DisplayName}} inspects and updates the boot selection record that the
bootloader reads from the bootselect partition of the eMMC device.

Usage: {{.ProgramName}} <command> [<options>...]

Commands can be classified as follows:
`)

	HelpFooter = strings.TrimSpace(`
Set the BOOTSELECT_CONFIG environment variable to override the configuration
file (which defaults to {{.ConfigPath}}).

For more information about a command, run '{{.ProgramName}} help <command>'.
`)

	helpAllHint = "For a short summary of all commands, run '{{.ProgramName}} help --all'."
)

// applyPersonality fills in the program naming placeholders of a help
// text.
func applyPersonality(s string) string {
	t, err := template.New("help").Parse(s)
	if err != nil {
		logger.Panicf("cannot parse help text: %v", err)
	}
	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]string{
		"ProgramName": cmdpkg.ProgramName,
		"DisplayName": cmdpkg.DisplayName,
		"ConfigPath":  config.DefaultPath,
	})
	if err != nil {
		logger.Panicf("cannot render help text: %v", err)
	}
	return buf.String()
}

// printShortHelp is shown for a bare invocation, and when help is asked
// for without naming a command.
func printShortHelp() {
	fmt.Fprintf(Stdout, "%s\n\n", applyPersonality(HelpHeader))
	w := tabWriter()
	for _, categ := range HelpCategories {
		fmt.Fprintf(w, "  %s:\t%s\n", categ.Label, strings.Join(categ.Commands, ", "))
	}
	w.Flush()
	fmt.Fprintf(Stdout, "\n%s\n%s\n", applyPersonality(HelpFooter), applyPersonality(helpAllHint))
}

// printLongHelp lists every command with its summary, per category.
func printLongHelp(parser *flags.Parser) {
	fmt.Fprintln(Stdout, applyPersonality(HelpHeader))
	for _, categ := range HelpCategories {
		fmt.Fprintf(Stdout, "\n  %s (%s):\n", categ.Label, categ.Description)
		w := tabWriter()
		for _, name := range categ.Commands {
			cmd := parser.Find(name)
			if cmd == nil {
				logger.Panicf("help category %q names unknown command %q", categ.Label, name)
			}
			fmt.Fprintf(w, "    %s\t%s\n", name, cmd.ShortDescription)
		}
		w.Flush()
	}
	fmt.Fprintf(Stdout, "\n%s\n", applyPersonality(HelpFooter))
}
