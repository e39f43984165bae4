package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/zonesmith/pkg/edgelayout"
	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/render"
	"github.com/matzehuels/zonesmith/pkg/render/adjacency"
	"github.com/matzehuels/zonesmith/pkg/render/svg"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Document is the json artifact: the zones together with the edge graph
// they convert to.
type Document struct {
	Zones     []zone.Zone            `json:"zones"`
	Edges     []edgelayout.Edge      `json:"edges"`
	Regions   []edgelayout.Region    `json:"regions"`
	Adjacency []edgelayout.Adjacency `json:"adjacency"`
}

// NewDocument describes a layout.
func NewDocument(l *edgelayout.Layout) Document {
	return Document{
		Zones:     l.Zones(),
		Edges:     l.Edges(),
		Regions:   l.Regions(),
		Adjacency: l.Adjacencies(),
	}
}

// RenderFormat produces one artifact. opts must already have defaults set.
func RenderFormat(ctx context.Context, l *edgelayout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return renderSVG(l, opts), nil
	case FormatPNG:
		return render.ToPNG(ctx, renderSVG(l, opts), DefaultPNGScale)
	case FormatPDF:
		return render.ToPDF(ctx, renderSVG(l, opts))
	case FormatDOT:
		return []byte(adjacency.ToDOT(l, adjacencyOptions(opts))), nil
	case FormatAdjacency:
		return adjacency.RenderSVG(ctx, adjacency.ToDOT(l, adjacencyOptions(opts)))
	case FormatJSON:
		data, err := json.MarshalIndent(NewDocument(l), "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
		return data, nil
	default:
		return nil, ValidateFormat(format)
	}
}

func renderSVG(l *edgelayout.Layout, opts Options) []byte {
	style, _ := svg.StyleByName(opts.Style)
	svgOpts := []svg.Option{svg.WithSize(opts.Width, opts.Height), svg.WithStyle(style)}
	if opts.Edges {
		svgOpts = append(svgOpts, svg.WithEdges(l.Edges()))
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	if i := opts.selected(); i >= 0 {
		svgOpts = append(svgOpts, svg.WithSelected(i))
	}
	return svg.Render(l.Zones(), svgOpts...)
}

func adjacencyOptions(opts Options) adjacency.Options {
	return adjacency.Options{Detailed: opts.Detailed, Selected: opts.selected()}
}
