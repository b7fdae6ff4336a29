// Package jpeg decodes a baseline sequential JPEG byte stream into a
// rectangular RGB Bitmap. It supports exactly the subset of the format a
// typical baseline encoder produces: a single SOF0 frame, 3 components
// (Y, Cb, Cr), Huffman coding with up to 2 DC and 2 AC tables, and a
// single interleaved scan. Progressive, arithmetic, hierarchical,
// restart-interval and non-8-bit-precision inputs are rejected with a
// distinct UnsupportedFeature error rather than silently mishandled.
package jpeg

import (
    "fmt"
    "io"
)

// Trace carries optional verbose diagnostics during decoding. All fields
// default to off; a nil *Trace (what Decode passes) disables tracing
// entirely, mirroring the teacher's Control.Markers/Mcu flags.
type Trace struct {
    Markers bool      // print each top-level marker as it is consumed
    MCUs    bool      // print MCU decode progress
    Out     io.Writer // destination; no output if unset
}

func (t *Trace) printMarker(m Marker, pos uint64) {
    if t == nil || !t.Markers || t.Out == nil {
        return
    }
    fmt.Fprintf(t.Out, "marker %s at offset 0x%x\n", m, pos)
}

func (t *Trace) printMCU(bx, by int) {
    if t == nil || !t.MCUs || t.Out == nil {
        return
    }
    fmt.Fprintf(t.Out, "MCU (%d,%d)\n", bx, by)
}

// Decode parses a complete JPEG byte stream (SOI through EOI) and
// returns the decoded RGB Bitmap. No configuration is accepted; decoder
// behavior is fully determined by the input, per the supported subset
// documented on the package.
func Decode(data []byte) (*Bitmap, error) {
    return DecodeTrace(data, nil)
}

// DecodeTrace is Decode with optional verbose tracing. tr may be nil.
func DecodeTrace(data []byte, tr *Trace) (*Bitmap, error) {
    r := newByteReader(data)

    h, err := parseHeader(r, tr)
    if err != nil {
        return nil, err
    }

    entropy, err := extractEntropyData(r)
    if err != nil {
        return nil, err
    }
    br := newBitReader(entropy)

    pairs, err := h.componentPairs()
    if err != nil {
        return nil, err
    }
    if len(pairs) != 3 {
        return nil, unsupported("only 3-component scans are supported")
    }

    bmp := &Bitmap{
        Channels: 3,
        Width:    h.frame.Width,
        Height:   h.frame.Height,
        Data:     make([]byte, int(h.frame.Width)*int(h.frame.Height)*3),
    }

    preds := make([]int16, len(pairs)) // DC predictor state, per component, zeroed at scan start

    for by := 0; by < h.mcu.mcusPerCol; by++ {
        for bx := 0; bx < h.mcu.mcusPerRow; bx++ {
            tr.printMCU(bx, by)
            planes, err := decodeMCU(br, h, pairs, preds)
            if err != nil {
                return nil, err
            }
            writeMCU(bmp, planes, h.mcu, bx, by)
        }
    }

    return bmp, nil
}
