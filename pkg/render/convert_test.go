package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/zonesmith/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><rect width="10" height="10" fill="red"/></svg>`

func TestConvert(t *testing.T) {
	ctx := context.Background()
	if !Available() {
		_, err := ToPDF(ctx, []byte(tinySVG))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Fatalf("ToPDF without rsvg-convert: err = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	pdf, err := ToPDF(ctx, []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF output does not start with %%PDF")
	}

	png, err := ToPNG(ctx, []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG output is not a PNG")
	}
}
