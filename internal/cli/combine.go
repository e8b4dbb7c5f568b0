package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) combineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine FILE...",
		Short: "Combine multiple documents into one array",
		Long: `Decode every FILE and write the array of documents, in argument order.
Without --out the result is printed.`,
		RunE: a.combine,
	}
	cmd.Flags().StringVar(&a.out, "out", "", "the output file")
	return cmd
}

func (a *app) combine(cmd *cobra.Command, args []string) error {
	items := make([]any, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, name := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := a.decodeFile(cmd, name)
			if err != nil {
				return err
			}
			items[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return a.writeOutput(cmd, items, a.out, a.outputFormatFor(cmd, a.out))
}
