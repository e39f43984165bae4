package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/session"
	"github.com/matzehuels/zonesmith/pkg/zone"
	"github.com/matzehuels/zonesmith/pkg/zonefile"
)

// editFile loads the layout at path, applies op to its edge graph and
// writes the result to output, or back to path when output is empty. The
// file is left untouched when op fails or the result does not validate.
func editFile(path, output string, op func(*edgelayout.Layout) error) (*edgelayout.Layout, error) {
	l, err := zonefile.Import(path)
	if err != nil {
		return nil, err
	}
	el, err := convert(l)
	if err != nil {
		return nil, err
	}
	if err := op(el); err != nil {
		return nil, err
	}
	zones, err := el.Export()
	if err != nil {
		return nil, err
	}
	if output == "" {
		output = path
	}
	out := &zone.Layout{Name: l.Name, Description: l.Description, Zones: zones}
	if err := zonefile.Export(out, output); err != nil {
		return nil, err
	}
	return el, nil
}

// splitCommand creates the split command.
func (c *CLI) splitCommand() *cobra.Command {
	var (
		region    int
		direction string
		at        float64
		output    string
	)
	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a region of a layout file",
		Long: `Split divides a region in two.

A horizontal split puts the parts side by side along a new vertical edge at
x = --at; a vertical split stacks them along a new horizontal edge at
y = --at. Both parts keep at least the minimum region size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := session.ParseDirection(direction)
			if err != nil {
				return err
			}
			var id edgelayout.EdgeID
			el, err := editFile(args[0], output, func(l *edgelayout.Layout) error {
				var err error
				if dir == session.Horizontal {
					id, err = l.SplitHorizontal(region, at)
				} else {
					id, err = l.SplitVertical(region, at)
				}
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Split region %d, added edge %s", region, StyleHighlight.Render(string(id)))
			printStats(el.RegionCount(), el.EdgeCount(), false)
			return nil
		},
	}
	cmd.Flags().IntVarP(&region, "region", "r", 0, "index of the region to split")
	cmd.Flags().StringVarP(&direction, "direction", "d", string(session.Horizontal), "horizontal (side by side) or vertical (stacked)")
	cmd.Flags().Float64Var(&at, "at", 0.5, "normalized split coordinate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of editing in place")
	return cmd
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var (
		edge   string
		to     float64
		output string
	)
	cmd := &cobra.Command{
		Use:   "move <file>",
		Short: "Move an edge of a layout file",
		Long:  `Move drags an edge to a new position, clamped so every region it bounds keeps the minimum size.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var got float64
			_, err := editFile(args[0], output, func(l *edgelayout.Layout) error {
				var err error
				got, err = l.MoveEdge(edgelayout.EdgeID(edge), to)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Moved edge %s to %.3f", StyleHighlight.Render(edge), got)
			if got != to {
				printWarning("Requested %.3f is outside the edge's range", to)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&edge, "edge", "e", "", "id of the edge to move")
	cmd.Flags().Float64Var(&to, "to", 0.5, "target position")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of editing in place")
	_ = cmd.MarkFlagRequired("edge")
	return cmd
}

// deleteEdgeCommand creates the delete-edge command.
func (c *CLI) deleteEdgeCommand() *cobra.Command {
	var (
		edge   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "delete-edge <file>",
		Short: "Remove an edge and merge the regions beside it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			el, err := editFile(args[0], output, func(l *edgelayout.Layout) error {
				return l.DeleteEdge(edgelayout.EdgeID(edge))
			})
			if err != nil {
				return err
			}
			printSuccess("Deleted edge %s", StyleHighlight.Render(edge))
			printStats(el.RegionCount(), el.EdgeCount(), false)
			return nil
		},
	}
	cmd.Flags().StringVarP(&edge, "edge", "e", "", "id of the edge to delete")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of editing in place")
	_ = cmd.MarkFlagRequired("edge")
	return cmd
}
