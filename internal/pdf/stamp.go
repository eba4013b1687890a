package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/diewo77/invoice-builder/i18n"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Stamper overlays text on every page of a PDF.
type Stamper interface {
	Stamp(ctx context.Context, pdf []byte, text string) ([]byte, error)
}

// Signer would apply a cryptographic signature. No implementation ships; the
// pipeline skips the step when it is nil.
type Signer interface {
	Sign(ctx context.Context, pdf []byte) ([]byte, error)
}

// stampLang is fixed: the attestation reads the same whatever the document language.
const stampLang = "en"

// SignatureText is the cosmetic stamp placed on every page.
func SignatureText(fullName string) string {
	return i18n.Tf(stampLang, "signed_by", fullName)
}

// Italic non-bold Helvetica, 20pt, bottom right, fully opaque, no rotation.
const signatureStyle = "fontname:Helvetica-Oblique, points:20, position:br, offset:-20 20, " +
	"scalefactor:1 abs, rotation:0, opacity:1, fillcolor:#000000"

var pdfcpuInit sync.Once

// TextStamper stamps with pdfcpu watermarks.
type TextStamper struct {
	style string
}

func NewTextStamper() *TextStamper {
	// keep pdfcpu from creating a config dir in $HOME
	pdfcpuInit.Do(api.DisableConfigDir)
	return &TextStamper{style: signatureStyle}
}

func (s *TextStamper) Stamp(ctx context.Context, in []byte, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wm, err := api.TextWatermark(text, s.style, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(in), &out, nil, wm, nil); err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	return out.Bytes(), nil
}
