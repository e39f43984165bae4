// Package zonefile reads and writes zone layouts as JSON, TOML or YAML.
//
// # Formats
//
// All three formats carry the same document: a layout name, an optional
// description, and an ordered list of zones in normalized [0,1]
// coordinates. In JSON:
//
//	{
//	  "name": "coding",
//	  "zones": [
//	    {"name": "Editor", "x": 0, "y": 0, "w": 0.65, "h": 1},
//	    {"name": "Terminal", "x": 0.65, "y": 0, "w": 0.35, "h": 1}
//	  ]
//	}
//
// The same layout in TOML uses an array of tables:
//
//	name = "coding"
//
//	[[zones]]
//	name = "Editor"
//	x = 0.0
//	y = 0.0
//	w = 0.65
//	h = 1.0
//
// The format is chosen from the file extension by [FormatFromPath]
// (.json, .toml, .yaml, .yml) or passed explicitly to [Read] and [Write].
//
// # Validation
//
// Decoding checks structure only: the document must parse and contain at
// least one zone. Whether the zones tile the unit square is the edge
// engine's concern; see [edgelayout.FromZones] and [edgelayout.Layout.Check].
// Malformed input yields an INVALID_FORMAT error from [errors].
//
// [edgelayout.FromZones]: github.com/matzehuels/zonesmith/pkg/edgelayout.FromZones
// [edgelayout.Layout.Check]: github.com/matzehuels/zonesmith/pkg/edgelayout.Layout.Check
// [errors]: github.com/matzehuels/zonesmith/pkg/errors
package zonefile
