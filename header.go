package jpeg

// QuantizationTable is an 8x8 unsigned matrix indexed [row][col] after
// un-zig-zag, with a precision flag (0 = 8-bit entries, 1 = 16-bit
// entries). Its destination id in {0,1} is not stored in the table; it
// is the table's index in header.quant.
type QuantizationTable struct {
    Precision uint8
    Values    [8][8]uint16
}

// FrameComponent is one component descriptor from SOF0.
type FrameComponent struct {
    Id       uint8
    H, V     uint8 // horizontal / vertical sampling factors, each 1..4
    QTableId uint8
}

// ScanComponent is one component descriptor from SOS.
type ScanComponent struct {
    Selector uint8
    DCTable  uint8
    ACTable  uint8
}

// FrameInfo holds the fields populated by SOF0.
type FrameInfo struct {
    Precision  uint8
    Width      uint16
    Height     uint16
    PaddedW    uint16
    PaddedH    uint16
    Components []FrameComponent
}

// ScanInfo holds the fields populated by SOS.
type ScanInfo struct {
    Components []ScanComponent
    SpecStart  uint8
    SpecEnd    uint8
    SuccApprox uint8
}

// mcuInfo is derived from FrameInfo once SOF0 and SOS have both been
// consumed.
type mcuInfo struct {
    hMax, vMax   uint8
    mcuW, mcuH   int // MCU pixel size: 8*hMax, 8*vMax
    mcusPerRow   int
    mcusPerCol   int
}

// header is the fully-parsed, read-only state produced by parseHeader,
// consumed by the scan decoder. Its componentPairs method pairs each
// scan component with the frame component whose identifier matches the
// scan selector.
type header struct {
    frame        FrameInfo
    scan         ScanInfo
    quant        [2]*QuantizationTable
    huffDC       [2]*HuffmanTable
    huffAC       [2]*HuffmanTable
    mcu          mcuInfo
    scanDataPos  uint64 // position() right after the SOS header
}

// componentPair binds one frame component to its scan counterpart,
// found by matching the scan selector against the frame component's id
// (never by raw array position, since the file's component identifiers
// are caller-chosen bytes, not guaranteed to be 1, 2, 3).
type componentPair struct {
    frame FrameComponent
    scan  ScanComponent
}

func (h *header) componentPairs() ([]componentPair, error) {
    pairs := make([]componentPair, 0, len(h.scan.Components))
    for _, sc := range h.scan.Components {
        found := false
        for _, fc := range h.frame.Components {
            if fc.Id == sc.Selector {
                pairs = append(pairs, componentPair{frame: fc, scan: sc})
                found = true
                break
            }
        }
        if !found {
            return nil, malformed("scan component has no matching frame component")
        }
    }
    return pairs, nil
}

// parseHeader drives r from offset 0 through the SOS segment, populating
// a header. It does not consume entropy-coded data.
func parseHeader(r *byteReader, tr *Trace) (*header, error) {
    first, err := r.readMarker()
    if err != nil {
        return nil, err
    }
    if first != _SOI {
        return nil, malformed("missing SOI")
    }
    tr.printMarker(first, r.position())

    h := &header{}
    sawSOF := false

    for {
        m, err := r.readMarker()
        if err != nil {
            return nil, err
        }
        tr.printMarker(m, r.position())

        switch {
        case m == _EOI:
            return nil, malformed("unexpected EOI before SOS")

        case m == _SOF0:
            if err := parseSOF0(r, h); err != nil {
                return nil, err
            }
            sawSOF = true

        case m.isSOFn() && m != _SOF0:
            return nil, unsupported("only baseline SOF0 frames are supported")

        case m == _DQT:
            if err := parseDQT(r, h); err != nil {
                return nil, err
            }

        case m == _DHT:
            if err := parseDHT(r, h); err != nil {
                return nil, err
            }

        case m == _DAC:
            return nil, unsupported("arithmetic coding is not supported")

        case m == _DRI:
            return nil, unsupported("restart intervals are not supported")

        case m == _DNL:
            return nil, unsupported("DNL segments are not supported")

        case m == _SOS:
            if !sawSOF {
                return nil, malformed("SOS before SOF0")
            }
            if err := parseSOS(r, h); err != nil {
                return nil, err
            }
            if err := finishHeader(h); err != nil {
                return nil, err
            }
            h.scanDataPos = r.position()
            return h, nil

        case m.isAPPn(), m == _COM, m == _DHP, m == _EXP, m.isRESn():
            if err := r.skipSegment(); err != nil {
                return nil, err
            }

        default:
            if err := r.skipSegment(); err != nil {
                return nil, err
            }
        }
    }
}

func parseSOF0(r *byteReader, h *header) error {
    if _, err := r.readWord(); err != nil { // segment length, unused here
        return err
    }
    precision, err := r.readByte()
    if err != nil {
        return err
    }
    if precision != 8 {
        return unsupported("only 8-bit sample precision is supported")
    }
    height, err := r.readWord()
    if err != nil {
        return err
    }
    width, err := r.readWord()
    if err != nil {
        return err
    }
    nf, err := r.readByte()
    if err != nil {
        return err
    }
    if nf != 3 {
        return unsupported("only 3-component frames are supported")
    }

    comps := make([]FrameComponent, 0, nf)
    seen := map[uint8]bool{}
    for i := 0; i < int(nf); i++ {
        id, err := r.readByte()
        if err != nil {
            return err
        }
        if seen[id] {
            return malformed("duplicate component identifier")
        }
        seen[id] = true
        hv, err := r.readByte()
        if err != nil {
            return err
        }
        qid, err := r.readByte()
        if err != nil {
            return err
        }
        hSF := hv >> 4
        vSF := hv & 0x0f
        if hSF < 1 || hSF > 4 || vSF < 1 || vSF > 4 {
            return malformed("invalid sampling factor")
        }
        comps = append(comps, FrameComponent{Id: id, H: hSF, V: vSF, QTableId: qid})
    }

    ids := map[uint8]bool{1: false, 2: false, 3: false}
    for _, c := range comps {
        if _, ok := ids[c.Id]; !ok {
            return unsupported("component identifiers must be 1, 2, 3")
        }
        ids[c.Id] = true
    }

    h.frame = FrameInfo{Precision: precision, Width: width, Height: height, Components: comps}
    return nil
}

func parseDQT(r *byteReader, h *header) error {
    length, err := r.readWord()
    if err != nil {
        return err
    }
    end := r.pos + uint(length) - 2
    for r.pos < end {
        pq, err := r.readByte()
        if err != nil {
            return err
        }
        precision := pq >> 4
        dest := pq & 0x0f
        if dest > 1 {
            return unsupported("quantization destination must be 0 or 1")
        }
        if precision > 1 {
            return unsupported("quantization precision must be 0 or 1")
        }

        var zz [64]uint16
        for i := 0; i < 64; i++ {
            if precision == 0 {
                b, err := r.readByte()
                if err != nil {
                    return err
                }
                zz[i] = uint16(b)
            } else {
                w, err := r.readWord()
                if err != nil {
                    return err
                }
                zz[i] = w
            }
        }

        qt := &QuantizationTable{Precision: precision}
        for i, rc := range zigZag {
            qt.Values[rc[0]][rc[1]] = zz[i]
        }
        h.quant[dest] = qt
    }
    return nil
}

func parseDHT(r *byteReader, h *header) error {
    length, err := r.readWord()
    if err != nil {
        return err
    }
    end := r.pos + uint(length) - 2
    for r.pos < end {
        tc, err := r.readByte()
        if err != nil {
            return err
        }
        class := tc >> 4
        dest := tc & 0x0f
        if class > 1 {
            return unsupported("huffman class must be DC or AC")
        }
        if dest > 1 {
            return unsupported("huffman destination must be 0 or 1")
        }

        var counts [16]uint8
        total := 0
        for i := 0; i < 16; i++ {
            c, err := r.readByte()
            if err != nil {
                return err
            }
            counts[i] = c
            total += int(c)
        }
        symbols := make([]uint8, total)
        for i := 0; i < total; i++ {
            s, err := r.readByte()
            if err != nil {
                return err
            }
            symbols[i] = s
        }

        table, err := buildHuffmanTable(counts, symbols)
        if err != nil {
            return err
        }
        if huffmanClass(class) == huffmanDC {
            h.huffDC[dest] = table
        } else {
            h.huffAC[dest] = table
        }
    }
    return nil
}

func parseSOS(r *byteReader, h *header) error {
    if _, err := r.readWord(); err != nil {
        return err
    }
    ns, err := r.readByte()
    if err != nil {
        return err
    }
    if int(ns) != len(h.frame.Components) {
        return malformed("scan component count does not match frame")
    }

    comps := make([]ScanComponent, 0, ns)
    for i := 0; i < int(ns); i++ {
        sel, err := r.readByte()
        if err != nil {
            return err
        }
        tt, err := r.readByte()
        if err != nil {
            return err
        }
        comps = append(comps, ScanComponent{Selector: sel, DCTable: tt >> 4, ACTable: tt & 0x0f})
    }

    ss, err := r.readByte()
    if err != nil {
        return err
    }
    se, err := r.readByte()
    if err != nil {
        return err
    }
    ah, err := r.readByte()
    if err != nil {
        return err
    }
    if ss != 0 || se != 63 {
        return unsupported("only full spectral selection 0..63 is supported")
    }
    if ah != 0 {
        return unsupported("successive approximation is not supported")
    }

    h.scan = ScanInfo{Components: comps, SpecStart: ss, SpecEnd: se, SuccApprox: ah}
    return nil
}

// finishHeader computes MCU geometry and padded image dimensions once
// both SOF0 and SOS have been parsed, and verifies the quantization and
// Huffman tables referenced by the scan actually exist.
func finishHeader(h *header) error {
    var hMax, vMax uint8
    for _, c := range h.frame.Components {
        if c.H > hMax {
            hMax = c.H
        }
        if c.V > vMax {
            vMax = c.V
        }
    }
    mcuW := 8 * int(hMax)
    mcuH := 8 * int(vMax)

    paddedW := ((int(h.frame.Width) + mcuW - 1) / mcuW) * mcuW
    paddedH := ((int(h.frame.Height) + mcuH - 1) / mcuH) * mcuH

    h.frame.PaddedW = uint16(paddedW)
    h.frame.PaddedH = uint16(paddedH)
    h.mcu = mcuInfo{
        hMax: hMax, vMax: vMax,
        mcuW: mcuW, mcuH: mcuH,
        mcusPerRow: paddedW / mcuW,
        mcusPerCol: paddedH / mcuH,
    }

    pairs, err := h.componentPairs()
    if err != nil {
        return err
    }
    for _, p := range pairs {
        if p.frame.QTableId > 1 || h.quant[p.frame.QTableId] == nil {
            return malformed("scan references undefined quantization table")
        }
        if int(p.scan.DCTable) > 1 || h.huffDC[p.scan.DCTable] == nil {
            return malformed("scan references undefined DC huffman table")
        }
        if int(p.scan.ACTable) > 1 || h.huffAC[p.scan.ACTable] == nil {
            return malformed("scan references undefined AC huffman table")
        }
        if p.frame.H > hMax || p.frame.V > vMax {
            return internalError("component sampling factor exceeds maximum")
        }
        if hMax%p.frame.H != 0 || vMax%p.frame.V != 0 {
            return malformed("non-integer chroma upsampling ratio")
        }
    }
    return nil
}
