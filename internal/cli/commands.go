package cli

import (
	"fmt"

	"github.com/junioryono/lazydi"
	"github.com/junioryono/lazydi/internal/tree"
	"github.com/spf13/cobra"
)

func newInspectCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Print the container assembled from a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := f.assemble(cmd, argOr(args, 0, "."))
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), f.format, container)
		},
	}
}

func newGetCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> [dir]",
		Short: "Print one value of the container assembled from a directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := f.assemble(cmd, argOr(args, 1, "."))
			if err != nil {
				return err
			}

			value, err := lazydi.GetFromContainer(args[0])(container)
			if err != nil {
				return err
			}
			if value == nil {
				return fmt.Errorf("no value at %q", args[0])
			}
			return write(cmd.OutOrStdout(), f.format, value)
		},
	}
}

func newTreeCommand(f *flags) *cobra.Command {
	var dot bool

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print the structure of a definition without assembling it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := f.loader(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			def, err := l.Load(cmd.Context(), argOr(args, 0, "."))
			if err != nil {
				return err
			}

			v := tree.NewVisualizer(tree.Compile(def))
			if dot {
				return v.WriteDOT(cmd.OutOrStdout())
			}
			return v.WriteText(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "write Graphviz DOT instead of text")
	return cmd
}

func argOr(args []string, i int, def string) string {
	if i < len(args) {
		return args[i]
	}
	return def
}
