package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert FILE [OUT_FILE]",
		Short: "Convert between formats (default when no command is given)",
		Long: `Convert FILE to another format. Without OUT_FILE the result is printed.

FILE may be "-" to read standard input, which requires --input-format.`,
		Args: maxArgs(2),
		RunE: a.convert,
	}
}

func (a *app) convert(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: specify the file to convert", errTooFewArgs)
	}
	v, err := a.decodeFile(cmd, args[0])
	if err != nil {
		return err
	}
	var dest string
	if len(args) > 1 {
		dest = args[1]
	}
	return a.writeOutput(cmd, v, dest, a.outputFormatFor(cmd, dest))
}
