package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split FILE PATTERN",
		Short: "Split a document containing an array into one document per element",
		Long: `Decode FILE, which must hold an array, and write each element to the file
named by PATTERN.

In PATTERN, {key} is replaced by the element's key field. A pattern that
starts with go-template= is executed as a Go text/template with the element
as data, e.g. 'go-template=out/{{.id}}.json'.`,
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case len(args) < 2:
				return errTooFewArgs
			case len(args) > 2:
				return errTooManyArgs
			}
			return nil
		},
		RunE: a.split,
	}
}

func (a *app) split(cmd *cobra.Command, args []string) error {
	v, err := a.decodeFile(cmd, args[0])
	if err != nil {
		return err
	}
	items, ok := v.([]any)
	if !ok {
		return errNotArray
	}
	n, err := newNamer(args[1])
	if err != nil {
		return err
	}

	names := make([]string, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		name, err := n.name(item)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if j, dup := seen[name]; dup {
			return fmt.Errorf("elements %d and %d would both be written to %s", j, i, name)
		}
		seen[name] = i
		names[i] = name
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return a.writeOutput(cmd, item, names[i], a.outputFormatFor(cmd, names[i]))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s written\n", name); err != nil {
			return err
		}
	}
	return nil
}
