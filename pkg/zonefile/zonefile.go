package zonefile

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/zonesmith/pkg/errors"
	"github.com/matzehuels/zonesmith/pkg/zone"
)

// Format is a zone file encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	YAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, TOML, YAML}

// ParseFormat accepts a format name as typed on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown zone file format %q (supported: json, toml, yaml)", s)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Read decodes a layout from r. It does not close r.
//
// Read returns INVALID_FORMAT if the document does not parse or holds no
// zones. Zones without a name keep an empty name; the engine assigns
// defaults on conversion.
func Read(r io.Reader, f Format) (*zone.Layout, error) {
	var (
		l   zone.Layout
		err error
	)
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&l)
	case TOML:
		_, err = toml.NewDecoder(r).Decode(&l)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&l)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown zone file format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	if len(l.Zones) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "layout %q has no zones", l.Name)
	}
	return &l, nil
}

// Write encodes l to w in format f.
func Write(w io.Writer, l *zone.Layout, f Format) error {
	var err error
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(l)
	case TOML:
		err = toml.NewEncoder(w).Encode(l)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(l); err == nil {
			err = enc.Close()
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown zone file format %q", f)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode %s", f)
	}
	return nil
}

// Import reads the layout file at path, choosing the format from its
// extension. A layout without a name is named after the file.
func Import(path string) (*zone.Layout, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer file.Close()

	l, err := Read(file, f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l, nil
}

// Export writes l to a file at path, choosing the format from its extension.
func Export(l *zone.Layout, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := Write(file, l, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
