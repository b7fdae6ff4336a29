package jpeg

// extractEntropyData reads scan bytes starting at r's current position,
// unescaping 0xFF 0x00 byte stuffing, until EOI terminates the stream.
// Any other real marker inside the scan (including RSTn: this core does
// not accept DRI, so baseline encoders never emit one) is unsupported.
func extractEntropyData(r *byteReader) ([]byte, error) {
    out := make([]byte, 0, r.remaining())
    for {
        b, err := r.readByte()
        if err != nil {
            return nil, malformed("unexpected end of input")
        }
        if b != 0xff {
            out = append(out, b)
            continue
        }
        // b == 0xff: look at the next byte to decide what it means.
        n, err := r.readByte()
        if err != nil {
            return nil, malformed("unexpected end of input")
        }
        switch {
        case n == 0x00:
            out = append(out, 0xff) // byte-stuffed literal 0xFF
        case n == 0xff:
            // marker fill: put the second 0xFF back for re-examination.
            r.pos--
        case Marker(0xff00|uint16(n)) == _EOI:
            return out, nil
        default:
            return nil, unsupported("marker inside entropy-coded segment")
        }
    }
}
