// Package cli implements the anyconv command line: convert, combine and split.
package cli

import (
	"errors"

	"github.com/bjaus/anyconv"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExitCode is the process status for any failed command.
const ExitCode = 2

var (
	errTooManyArgs = errors.New("too many arguments")
	errTooFewArgs  = errors.New("too few arguments")
	errNotArray    = errors.New("split only works on arrays")
)

// app holds everything a command needs. All file I/O goes through fs.
type app struct {
	fs     afero.Fs
	conv   *anyconv.Converter
	config *viper.Viper
	log    *log.Logger

	cfgFile      string
	verbose      bool
	inputFormat  string
	outputFormat string
	out          string
}

// Option configures the root command.
type Option func(*app)

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *app) { a.fs = fs }
}

// WithConverter replaces the default converter.
func WithConverter(c *anyconv.Converter) Option {
	return func(a *app) { a.conv = c }
}

// New builds the root command. Without a subcommand name the arguments are
// handed to convert.
func New(opts ...Option) *cobra.Command {
	a := &app{
		fs:   afero.NewOsFs(),
		conv: anyconv.New(anyconv.DefaultRegistry()),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.config = viper.New()
	a.config.SetFs(a.fs)

	root := &cobra.Command{
		Use:   "anyconv [command] FILE [OUT_FILE]",
		Short: "Convert (almost) anything to JSON, and back",
		Long: titleStyle.Render("anyconv") + subtitleStyle.Render(" - convert between structured data formats") + `

Reads a document in one format and writes it in another.

` + subtitleStyle.Render("Formats:") + `
  ` + formatList(a.conv) + `

` + subtitleStyle.Render("Examples:") + `
  anyconv config.yaml                 Print config.yaml as JSON
  anyconv data.csv data.xlsx          Write data.csv as a workbook
  anyconv combine a.json b.json --out all.yaml
  anyconv split people.json out/{id}.toml`,
		Args:          maxArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.convert(cmd, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/anyconv/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.inputFormat, "input-format", "", "format of the input (default: from the file extension)")
	flags.StringVar(&a.outputFormat, "output-format", "", "format of the output (default: from the output file extension, else json)")

	root.AddCommand(a.convertCmd(), a.combineCmd(), a.splitCmd())
	return root
}

// maxArgs is cobra.MaximumNArgs with the message users of the tool expect.
func maxArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > n {
			return errTooManyArgs
		}
		return nil
	}
}
