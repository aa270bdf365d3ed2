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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/canonical/go-flags"
	"golang.org/x/term"

	cmdpkg "github.com/canonical/bootselect/cmd"
	"github.com/canonical/bootselect/internals/bootselect"
	"github.com/canonical/bootselect/internals/config"
	"github.com/canonical/bootselect/internals/logger"
	"github.com/canonical/bootselect/internals/mmc"
	"github.com/canonical/bootselect/internals/volume"
)

var (
	// Standard streams, redirected for testing.
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
	// set to logger.Panicf in testing
	noticef = logger.Noticef
)

type options struct {
	Version func() `long:"version"`
}

var optionsData options

// ErrExtraArgs is returned  if extra arguments to a command are found
var ErrExtraArgs = fmt.Errorf("too many arguments for command")

// CmdInfo holds information needed by the CLI to execute commands and
// populate entries in the help manual.
type CmdInfo struct {
	// Name of the command
	Name string

	// Summary is a single-line help string that will be displayed
	// in the full help manual (i.e. help --all)
	Summary string

	// Description contains exhaustive documentation about the command,
	// that will be reflected in the specific help manual for the
	// command.
	Description string

	// ArgsHelp maps long option names (e.g. "--foo") and positional
	// argument names (e.g. "<foo>") to the help strings shown besides
	// them in the command's manual. Every option must be described.
	ArgsHelp map[string]string

	// New creates a new instance of the command struct containing an
	// Execute(args []string) implementation.
	New func(opts *CmdOptions) flags.Commander
}

// CmdOptions is handed to CmdInfo.New when a command is built.
type CmdOptions struct {
	Parser *flags.Parser
	// LoadConfig returns the configuration. Only commands that touch the
	// device call it, so help and version work with a broken config file.
	LoadConfig func() (*config.Config, error)
}

// commands holds information about all registered commands.
var commands []*CmdInfo

// AddCommand replaces parser.addCommand() in a way that is compatible with
// re-constructing a pristine parser.
func AddCommand(info *CmdInfo) {
	commands = append(commands, info)
}

func lintDesc(cmdName, optName, desc, origDesc string) {
	if len(optName) == 0 {
		logger.Panicf("option on %q has no name", cmdName)
	}
	if len(origDesc) != 0 {
		logger.Panicf("description of %s's %q of %q set from tag", cmdName, optName, origDesc)
	}
	if len(desc) > 0 {
		// decode the first rune instead of converting all of desc into []rune
		r, _ := utf8.DecodeRuneInString(desc)
		// note IsLower != !IsUpper for runes with no upper/lower.
		if unicode.IsLower(r) && !strings.HasPrefix(desc, cmdName) {
			noticef("description of %s's %q is lowercase: %q", cmdName, optName, desc)
		}
	}
}

func lintArg(cmdName, optName, desc, origDesc string) {
	lintDesc(cmdName, optName, desc, origDesc)
	if len(optName) > 0 && optName[0] == '<' && optName[len(optName)-1] == '>' {
		return
	}
	noticef("argument %q's %q should begin with < and end with >", cmdName, optName)
}

// ParserOptions holds what every command may need.
type ParserOptions struct {
	LoadConfig func() (*config.Config, error)
}

// Parser creates and populates a fresh parser.
// Since commands have local state a fresh parser is required to isolate tests
// from each other.
func Parser(opts *ParserOptions) *flags.Parser {
	optionsData.Version = func() {
		printVersion()
		panic(&exitStatus{0})
	}
	flagopts := flags.Options(flags.PassDoubleDash)
	parser := flags.NewParser(&optionsData, flagopts)
	parser.ShortDescription = "Tool to inspect and update the boot selection record"
	parser.LongDescription = applyPersonality(HelpHeader)
	// hide the unhelpful "[OPTIONS]" from help output
	parser.Usage = ""
	if version := parser.FindOptionByLongName("version"); version != nil {
		version.Description = "Print the version and exit"
		version.Hidden = true
	}
	// add --help like what go-flags would do for us, but hidden
	addHelp(parser)

	cmdOpts := &CmdOptions{
		Parser:     parser,
		LoadConfig: opts.LoadConfig,
	}
	for _, c := range commands {
		obj := c.New(cmdOpts)
		cmd, err := parser.AddCommand(c.Name, c.Summary, strings.TrimSpace(c.Description), obj)
		if err != nil {
			logger.Panicf("cannot add command %q: %v", c.Name, err)
		}

		for _, opt := range cmd.Options() {
			name := "--" + opt.LongName
			if opt.LongName == "" {
				name = "-" + string(opt.ShortName)
			}
			desc, ok := c.ArgsHelp[name]
			if !ok {
				logger.Panicf("%s missing description for %s", c.Name, name)
			}
			lintDesc(c.Name, name, desc, opt.Description)
			opt.Description = desc
		}

		for _, arg := range cmd.Args() {
			desc := c.ArgsHelp[arg.Name]
			lintArg(c.Name, arg.Name, desc, arg.Description)
			arg.Description = desc
		}
	}
	return parser
}

var (
	isStdinTTY  = term.IsTerminal(0)
	isStdoutTTY = term.IsTerminal(1)
	osExit      = os.Exit
)

// exitStatus can be used in panic(&exitStatus{code}) to cause the main
// function to exit with a given exit code, for the rare cases when you want
// to return an exit code other than 0 or 1, or when an error return is not
// possible.
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("internal error: exitStatus{%d} being handled as normal error", e.code)
}

// RunOptions configures a Run of the command line.
type RunOptions struct {
	// ConfigPath is the configuration file to load. A missing file
	// yields the defaults.
	ConfigPath string
}

func Run(opts *RunOptions) error {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(*exitStatus); ok {
				osExit(e.code)
			}
			panic(v)
		}
	}()

	logger.SetLogger(logger.New(Stderr, "[bootselect] "))

	parser := Parser(&ParserOptions{
		LoadConfig: func() (*config.Config, error) {
			return config.Load(opts.ConfigPath)
		},
	})
	xtra, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok {
			switch e.Type {
			case flags.ErrCommandRequired:
				printShortHelp()
				return nil
			case flags.ErrHelp:
				parser.WriteHelp(Stdout)
				return nil
			case flags.ErrUnknownCommand:
				sub := os.Args[1]
				sug := cmdpkg.ProgramName + " help"
				if len(xtra) > 0 {
					sub = xtra[0]
					if x := parser.Command.Active; x != nil && x.Name != "help" {
						sug = cmdpkg.ProgramName + " help " + x.Name
					}
				}
				return fmt.Errorf("unknown command %q, see '%s'.", sub, sug)
			}
		}
		return errorToMessage(err)
	}

	return nil
}

var errorPrefix = "error: "

// errorToMessage reflows the message of boot selection failures so that
// it reads well after errorPrefix on a terminal.
func errorToMessage(e error) error {
	var berr *bootselect.Error
	if !errors.As(e, &berr) {
		return e
	}
	logger.Debugf("error: %s (%s)", e, berr.Kind)
	return errors.New(fill(e.Error(), len(errorPrefix)))
}

// getConfigPath returns the configuration file named by $BOOTSELECT_CONFIG,
// or the default one.
func getConfigPath() string {
	path := os.Getenv(config.PathEnv)
	if path == "" {
		path = config.DefaultPath
	}
	return path
}

// DefaultRunOptions returns the options Run is called with by the
// bootselect binary.
func DefaultRunOptions() *RunOptions {
	return &RunOptions{ConfigPath: getConfigPath()}
}

// overridden for testing
var openDevice = func(path string) (mmc.Device, error) {
	dev, err := mmc.Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// newManager loads the configuration and the volume table it names, and
// builds a Manager out of them.
func newManager(loadConfig func() (*config.Config, error)) (*bootselect.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	table, err := volume.Load(cfg.VolumeTable)
	if err != nil {
		return nil, err
	}
	return bootselect.New(&bootselect.Options{
		Volumes:        table,
		MountPoint:     cfg.MountPoint,
		FSType:         cfg.FSType,
		SysfsBlockRoot: cfg.SysfsBlockRoot,
		RawDevice:      cfg.RawDevice,
		WaitForDevice:  cfg.WaitForDevice,
		OpenDevice:     openDevice,
	})
}
