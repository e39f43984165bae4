package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/render/term"
)

// layoutArgs are the flags shared by commands that read one layout.
type layoutArgs struct {
	template string
}

func (a *layoutArgs) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.template, "template", "t", "", "use a built-in template instead of a file")
}

// args returns the cobra argument validator: a file unless --template is set.
func (a *layoutArgs) args(cmd *cobra.Command, args []string) error {
	if a.template != "" {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func (a *layoutArgs) path(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var in layoutArgs
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a layout tiles the screen",
		Args:  in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(in.path(args), in.template)
			if err != nil {
				return err
			}
			el, err := convert(l)
			if err != nil {
				return err
			}
			if err := el.Check(); err != nil {
				printError("%s is not a valid layout", l.Name)
				return errors.Wrap(errors.ErrCodeValidation, err, "%s", l.Name)
			}
			printSuccess("%s is valid", l.Name)
			printStats(el.RegionCount(), el.EdgeCount(), false)
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		in       layoutArgs
		cols     int
		rows     int
		selected int
		edge     string
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Draw a layout in the terminal",
		Args:  in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(in.path(args), in.template)
			if err != nil {
				return err
			}
			el, err := convert(l)
			if err != nil {
				return err
			}
			opts := []term.Option{term.WithSize(cols, rows), term.WithSelected(selected)}
			if edge != "" {
				e, ok := el.Edge(edgelayout.EdgeID(edge))
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "unknown edge %q", edge)
				}
				opts = append(opts, term.WithEdge(e))
			}
			if plain {
				opts = append(opts, term.Plain())
			}
			fmt.Fprintln(cmd.OutOrStdout(), term.Render(el.Zones(), opts...))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&cols, "cols", term.DefaultCols, "grid width in characters")
	cmd.Flags().IntVar(&rows, "rows", term.DefaultRows, "grid height in characters")
	cmd.Flags().IntVar(&selected, "select", -1, "highlight the region at this index")
	cmd.Flags().StringVar(&edge, "edge", "", "highlight an edge")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	return cmd
}

// edgesCommand creates the edges command.
func (c *CLI) edgesCommand() *cobra.Command {
	var in layoutArgs
	cmd := &cobra.Command{
		Use:   "edges [file]",
		Short: "List the edges of a layout with their drag range",
		Args:  in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(in.path(args), in.template)
			if err != nil {
				return err
			}
			el, err := convert(l)
			if err != nil {
				return err
			}
			writeEdgeTable(cmd.OutOrStdout(), el)
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

// writeEdgeTable prints one row per edge: id, axis, position, span, drag
// range and whether deleting it would merge regions.
func writeEdgeTable(w io.Writer, l *edgelayout.Layout) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	var rows [][]string
	for _, e := range l.Edges() {
		rng := "fixed"
		if !e.Fixed {
			lo, hi, _ := l.Constraints(e.ID)
			rng = fmt.Sprintf("%.3f..%.3f", lo, hi)
		}
		rows = append(rows, []string{
			string(e.ID),
			e.Axis.String(),
			fmt.Sprintf("%.3f", e.Position),
			fmt.Sprintf("%.3f..%.3f", e.Start, e.End()),
			rng,
			strconv.FormatBool(l.Deletable(e.ID)),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Edge", "Axis", "Position", "Span", "Range", "Deletable").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}
