package jpeg

// plane is one component's sample grid for a single MCU, stored
// row-major at the MCU's full pixel size (8*hMax x 8*vMax), after any
// upsampling needed because this component's sampling factors are below
// the frame maximum.
type plane struct {
    w, h int
    data []int16
}

func newPlane(w, h int) *plane {
    return &plane{w: w, h: h, data: make([]int16, w*h)}
}

func (p *plane) at(y, x int) int16   { return p.data[y*p.w+x] }
func (p *plane) set(y, x int, v int16) { p.data[y*p.w+x] = v }

// extendMagnitude applies the JPEG sign-extension rule: for category
// T > 0 and raw bits V, the decoded value is V if its top bit is set
// (V >= 1<<(T-1)), else V - ((1<<T) - 1).
func extendMagnitude(v uint64, t uint8) int32 {
    if t == 0 {
        return 0
    }
    vv := int32(v)
    half := int32(1) << (t - 1)
    if vv < half {
        return vv - (int32(1)<<t - 1)
    }
    return vv
}

// decodeDataUnit decodes one 8x8 data unit: a DC coefficient (using and
// updating pred) followed by up to 63 AC coefficients, dequantizes and
// un-zig-zags them, and returns the post-IDCT sample block.
func decodeDataUnit(br *bitReader, dcTable, acTable *HuffmanTable, q *QuantizationTable, pred *int16) ([8][8]int16, error) {
    var coeff [8][8]int16

    // DC coefficient.
    t, err := dcTable.decodeSymbol(br)
    if err != nil {
        return coeff, err
    }
    if t > 11 {
        return coeff, malformed("invalid DC category")
    }
    var diff int32
    if t > 0 {
        bits, err := br.readBits(uint(t))
        if err != nil {
            return coeff, err
        }
        diff = extendMagnitude(bits, t)
    }
    *pred += int16(diff)
    coeff[0][0] = *pred * int16(q.Values[0][0])

    // AC coefficients.
    k := 0
    for k < 63 {
        k++
        rs, err := acTable.decodeSymbol(br)
        if err != nil {
            return coeff, err
        }
        if rs == 0x00 { // EOB
            break
        }
        if rs == 0xf0 { // ZRL: 16 zero coefficients
            k += 15
            continue
        }
        run := int(rs >> 4)
        size := rs & 0x0f
        k += run
        if k > 63 {
            return coeff, malformed("run length overflow")
        }
        bits, err := br.readBits(uint(size))
        if err != nil {
            return coeff, err
        }
        val := extendMagnitude(bits, size)

        row, col := zigZag[k][0], zigZag[k][1]
        coeff[row][col] = int16(val) * int16(q.Values[row][col])
    }

    return inverseDCT8x8(&coeff), nil
}

// decodeComponentPlane decodes all H*V data units for one component of
// one MCU, placing each into its native-resolution position, then
// nearest-neighbor upsamples to the MCU's full (hMax*8 x vMax*8) size.
func decodeComponentPlane(br *bitReader, h *header, pair componentPair, pred *int16) (*plane, error) {
    dc := h.huffDC[pair.scan.DCTable]
    ac := h.huffAC[pair.scan.ACTable]
    q := h.quant[pair.frame.QTableId]

    hi, vi := int(pair.frame.H), int(pair.frame.V)
    native := newPlane(hi*8, vi*8)

    for duRow := 0; duRow < vi; duRow++ {
        for duCol := 0; duCol < hi; duCol++ {
            block, err := decodeDataUnit(br, dc, ac, q, pred)
            if err != nil {
                return nil, err
            }
            baseY, baseX := duRow*8, duCol*8
            for y := 0; y < 8; y++ {
                for x := 0; x < 8; x++ {
                    native.set(baseY+y, baseX+x, block[y][x])
                }
            }
        }
    }

    hMax, vMax := int(h.mcu.hMax), int(h.mcu.vMax)
    if hi == hMax && vi == vMax {
        return native, nil // upsampling is the identity
    }

    vr := vMax / vi
    hr := hMax / hi
    full := newPlane(hMax*8, vMax*8)
    for y := 0; y < full.h; y++ {
        for x := 0; x < full.w; x++ {
            full.set(y, x, native.at(y/vr, x/hr))
        }
    }
    return full, nil
}

// decodeMCU decodes one MCU: one plane per scan component, each already
// upsampled to the MCU's full pixel size, indexed by component identity
// (id-1) rather than scan-list position, since SOS is free to list its
// components in any order.
func decodeMCU(br *bitReader, h *header, pairs []componentPair, preds []int16) ([3]*plane, error) {
    var planes [3]*plane
    for i, pair := range pairs {
        p, err := decodeComponentPlane(br, h, pair, &preds[i])
        if err != nil {
            return planes, err
        }
        if pair.frame.Id < 1 || pair.frame.Id > 3 {
            return planes, internalError("component identifier out of range")
        }
        planes[pair.frame.Id-1] = p
    }
    return planes, nil
}
