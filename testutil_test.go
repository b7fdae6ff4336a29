package jpeg

// testutil_test.go builds small synthetic baseline JPEG byte streams for
// the scenarios described in the package's test files, without needing
// a real encoder on hand. It mirrors, in reverse, exactly the segment
// layouts header.go parses.

import "bytes"

type bitPacker struct {
    buf  bytes.Buffer
    acc  uint8
    n    uint
}

func (p *bitPacker) pushBit(b uint8) {
    p.acc = p.acc<<1 | (b & 1)
    p.n++
    if p.n == 8 {
        p.flushByte()
    }
}

func (p *bitPacker) flushByte() {
    p.buf.WriteByte(p.acc)
    if p.acc == 0xff {
        p.buf.WriteByte(0x00) // byte-stuff a literal 0xFF
    }
    p.acc = 0
    p.n = 0
}

// writeBits writes the low n bits of v, most-significant bit first.
func (p *bitPacker) writeBits(v uint64, n uint) {
    for i := int(n) - 1; i >= 0; i-- {
        p.pushBit(uint8((v >> uint(i)) & 1))
    }
}

// writeZeroCode writes a canonical Huffman code built for a single-symbol
// table of the given length, whose only code is all-zero bits (the
// canonical code generator always assigns the first code of the
// shortest length as 0).
func (p *bitPacker) writeZeroCode(length uint) {
    p.writeBits(0, length)
}

// finish pads the final partial byte with 1 bits (the conventional JPEG
// stuffing pad) and flushes it.
func (p *bitPacker) finish() []byte {
    for p.n != 0 {
        p.pushBit(1)
    }
    return p.buf.Bytes()
}

func u16be(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func segment(marker uint16, payload []byte) []byte {
    var b bytes.Buffer
    b.Write(u16be(marker))
    b.Write(u16be(uint16(len(payload) + 2)))
    b.Write(payload)
    return b.Bytes()
}

// singleSymbolDHT builds a DHT payload (without marker/length) for one
// class+destination whose only code word is the single byte symbol, at
// Huffman code length 1 (bit "0").
func singleSymbolDHT(class, dest, symbol uint8) []byte {
    var b bytes.Buffer
    b.WriteByte(class<<4 | dest)
    counts := make([]byte, 16)
    counts[0] = 1
    b.Write(counts)
    b.WriteByte(symbol)
    return b.Bytes()
}

// twoSymbolDHT builds a DHT payload with two length-1 codewords: sym0 at
// code "0" and sym1 at code "1".
func twoSymbolDHT(class, dest, sym0, sym1 uint8) []byte {
    var b bytes.Buffer
    b.WriteByte(class<<4 | dest)
    counts := make([]byte, 16)
    counts[0] = 2
    b.Write(counts)
    b.WriteByte(sym0)
    b.WriteByte(sym1)
    return b.Bytes()
}

// allOnesDQT builds a DQT payload for destination dest, 8-bit precision,
// every entry equal to value (in zig-zag order, so the natural-order
// matrix is also constant).
func allOnesDQT(dest uint8, value byte) []byte {
    var b bytes.Buffer
    b.WriteByte(0<<4 | dest) // precision 0
    for i := 0; i < 64; i++ {
        b.WriteByte(value)
    }
    return b.Bytes()
}

type testComp struct {
    id, h, v, q uint8
}

func sof0Payload(w, h uint16, comps []testComp) []byte {
    var b bytes.Buffer
    b.WriteByte(8) // precision
    b.Write(u16be(h))
    b.Write(u16be(w))
    b.WriteByte(byte(len(comps)))
    for _, c := range comps {
        b.WriteByte(c.id)
        b.WriteByte(c.h<<4 | c.v)
        b.WriteByte(c.q)
    }
    return b.Bytes()
}

type testScanComp struct {
    sel, dc, ac uint8
}

func sosPayload(comps []testScanComp) []byte {
    var b bytes.Buffer
    b.WriteByte(byte(len(comps)))
    for _, c := range comps {
        b.WriteByte(c.sel)
        b.WriteByte(c.dc<<4 | c.ac)
    }
    b.WriteByte(0)  // spectral start
    b.WriteByte(63) // spectral end
    b.WriteByte(0)  // successive approximation
    return b.Bytes()
}

// buildBaselineJPEG assembles SOI, one DQT (dest 0, constant qValue), one
// DC+AC Huffman table pair (dest 0, single symbols dcSymbol/acSymbol),
// SOF0 with comps, SOS referencing table/ dest 0 throughout, the given
// entropy bytes, and EOI. leadingFill 0xFF bytes are inserted right
// after SOI (before the DQT marker) to exercise marker-fill tolerance
// when nonzero.
func buildBaselineJPEG(w, h uint16, comps []testComp, qValue, dcSymbol, acSymbol byte, entropy []byte, leadingFill int) []byte {
    return buildBaselineJPEGWithTables(w, h, comps, qValue,
        singleSymbolDHT(0, 0, dcSymbol), singleSymbolDHT(1, 0, acSymbol),
        entropy, leadingFill)
}

// buildBaselineJPEGWithTables is buildBaselineJPEG generalized to accept
// arbitrary pre-built DHT payloads for the DC and AC tables at dest 0.
func buildBaselineJPEGWithTables(w, h uint16, comps []testComp, qValue byte, dcDHT, acDHT []byte, entropy []byte, leadingFill int) []byte {
    var b bytes.Buffer
    b.Write(u16be(uint16(_SOI)))
    for i := 0; i < leadingFill; i++ {
        b.WriteByte(0xff)
    }
    b.Write(segment(uint16(_DQT), allOnesDQT(0, qValue)))
    b.Write(segment(uint16(_DHT), dcDHT))
    b.Write(segment(uint16(_DHT), acDHT))
    b.Write(segment(uint16(_SOF0), sof0Payload(w, h, comps)))

    scanComps := make([]testScanComp, len(comps))
    for i, c := range comps {
        scanComps[i] = testScanComp{sel: c.id, dc: 0, ac: 0}
    }
    b.Write(segment(uint16(_SOS), sosPayload(scanComps)))
    b.Write(entropy)
    b.Write(u16be(uint16(_EOI)))
    return b.Bytes()
}

// buildBaselineJPEGCustomScan is buildBaselineJPEGWithTables generalized
// to let the SOS component list be given explicitly, in any order and
// independent of the SOF0 declaration order -- used to prove decoding
// doesn't depend on the scan listing components in id order.
func buildBaselineJPEGCustomScan(w, h uint16, frameComps []testComp, scanOrder []uint8, qValue byte, dcDHT, acDHT []byte, entropy []byte) []byte {
    var b bytes.Buffer
    b.Write(u16be(uint16(_SOI)))
    b.Write(segment(uint16(_DQT), allOnesDQT(0, qValue)))
    b.Write(segment(uint16(_DHT), dcDHT))
    b.Write(segment(uint16(_DHT), acDHT))
    b.Write(segment(uint16(_SOF0), sof0Payload(w, h, frameComps)))

    scanComps := make([]testScanComp, len(scanOrder))
    for i, id := range scanOrder {
        scanComps[i] = testScanComp{sel: id, dc: 0, ac: 0}
    }
    b.Write(segment(uint16(_SOS), sosPayload(scanComps)))
    b.Write(entropy)
    b.Write(u16be(uint16(_EOI)))
    return b.Bytes()
}

var yCbCr444Comps = []testComp{
    {id: 1, h: 1, v: 1, q: 0},
    {id: 2, h: 1, v: 1, q: 0},
    {id: 3, h: 1, v: 1, q: 0},
}

var yCbCr420Comps = []testComp{
    {id: 1, h: 2, v: 2, q: 0},
    {id: 2, h: 1, v: 1, q: 0},
    {id: 3, h: 1, v: 1, q: 0},
}
