package jpeg

import "fmt"

// Marker is a tagged 16-bit big-endian value (0xFFxx) identifying a JPEG
// segment.
type Marker uint16

const (
    _TEM   Marker = 0xff01

    _SOF0  Marker = 0xffc0
    _SOF1  Marker = 0xffc1
    _SOF2  Marker = 0xffc2
    _SOF3  Marker = 0xffc3
    _DHT   Marker = 0xffc4
    _SOF5  Marker = 0xffc5
    _SOF6  Marker = 0xffc6
    _SOF7  Marker = 0xffc7
    _JPG   Marker = 0xffc8
    _SOF9  Marker = 0xffc9
    _SOF10 Marker = 0xffca
    _SOF11 Marker = 0xffcb
    _DAC   Marker = 0xffcc
    _SOF13 Marker = 0xffcd
    _SOF14 Marker = 0xffce
    _SOF15 Marker = 0xffcf

    _RST0  Marker = 0xffd0
    _RST1  Marker = 0xffd1
    _RST2  Marker = 0xffd2
    _RST3  Marker = 0xffd3
    _RST4  Marker = 0xffd4
    _RST5  Marker = 0xffd5
    _RST6  Marker = 0xffd6
    _RST7  Marker = 0xffd7
    _SOI   Marker = 0xffd8
    _EOI   Marker = 0xffd9
    _SOS   Marker = 0xffda
    _DQT   Marker = 0xffdb
    _DNL   Marker = 0xffdc
    _DRI   Marker = 0xffdd
    _DHP   Marker = 0xffde
    _EXP   Marker = 0xffdf

    _APP0  Marker = 0xffe0
    _APP15 Marker = 0xffef

    _RES0  Marker = 0xfff0
    _RES13 Marker = 0xfffd

    _COM   Marker = 0xfffe
)

func (m Marker) isAPPn() bool { return m >= _APP0 && m <= _APP15 }
func (m Marker) isRSTn() bool { return m >= _RST0 && m <= _RST7 }
func (m Marker) isRESn() bool { return m >= _RES0 && m <= _RES13 }

func (m Marker) isSOFn() bool {
    switch m {
    case _SOF0, _SOF1, _SOF2, _SOF3, _SOF5, _SOF6, _SOF7,
         _SOF9, _SOF10, _SOF11, _SOF13, _SOF14, _SOF15:
        return true
    }
    return false
}

// String names a marker for trace output and error messages; it never
// allocates beyond the returned literal or a single Sprintf call for the
// handful of numbered families (APPn, RSTn, RESn).
func (m Marker) String() string {
    switch m {
    case _TEM:  return "TEM"
    case _SOF0: return "SOF0"
    case _SOF1: return "SOF1"
    case _SOF2: return "SOF2"
    case _SOF3: return "SOF3"
    case _DHT:  return "DHT"
    case _SOF5: return "SOF5"
    case _SOF6: return "SOF6"
    case _SOF7: return "SOF7"
    case _JPG:  return "JPG"
    case _SOF9: return "SOF9"
    case _SOF10: return "SOF10"
    case _SOF11: return "SOF11"
    case _DAC:  return "DAC"
    case _SOF13: return "SOF13"
    case _SOF14: return "SOF14"
    case _SOF15: return "SOF15"
    case _SOI:  return "SOI"
    case _EOI:  return "EOI"
    case _SOS:  return "SOS"
    case _DQT:  return "DQT"
    case _DNL:  return "DNL"
    case _DRI:  return "DRI"
    case _DHP:  return "DHP"
    case _EXP:  return "EXP"
    case _COM:  return "COM"
    }
    switch {
    case m.isAPPn(): return fmt.Sprintf("APP%d", m-_APP0)
    case m.isRSTn(): return fmt.Sprintf("RST%d", m-_RST0)
    case m.isRESn(): return fmt.Sprintf("RES%d", m-_RES0)
    }
    return fmt.Sprintf("0x%04x", uint16(m))
}

// byteReader is a cursor over a borrowed, immutable input slice. It never
// copies the input; it only tracks an offset into it.
type byteReader struct {
    data []byte
    pos  uint
}

func newByteReader(data []byte) *byteReader {
    return &byteReader{data: data}
}

func (r *byteReader) position() uint64 {
    return uint64(r.pos)
}

func (r *byteReader) remaining() uint {
    return uint(len(r.data)) - r.pos
}

func (r *byteReader) readByte() (byte, error) {
    if r.pos >= uint(len(r.data)) {
        return 0, malformed("unexpected end of input")
    }
    b := r.data[r.pos]
    r.pos++
    return b, nil
}

func (r *byteReader) readWord() (uint16, error) {
    if r.remaining() < 2 {
        return 0, malformed("unexpected end of input")
    }
    w := uint16(r.data[r.pos])<<8 | uint16(r.data[r.pos+1])
    r.pos += 2
    return w, nil
}

// readMarker reads one big-endian word expecting a marker. It tolerates
// marker-fill bytes (0xFF 0xFF ...) by consuming extra 0xFF bytes until a
// non-0xFF byte follows, then recognizing the resulting marker word.
func (r *byteReader) readMarker() (Marker, error) {
    first, err := r.readByte()
    if err != nil {
        return 0, err
    }
    if first != 0xff {
        return 0, malformed("invalid JPEG file")
    }
    second, err := r.readByte()
    if err != nil {
        return 0, err
    }
    for second == 0xff {
        second, err = r.readByte()
        if err != nil {
            return 0, err
        }
    }
    if second == 0x00 {
        return 0, malformed("invalid JPEG file")
    }
    marker := Marker(0xff00 | uint16(second))
    if marker < _TEM {
        return 0, unsupported("unrecognized marker")
    }
    return marker, nil
}

// skipSegment reads a 16-bit length L and advances L-2 bytes past it.
func (r *byteReader) skipSegment() error {
    l, err := r.readWord()
    if err != nil {
        return err
    }
    if l < 2 {
        return malformed("invalid segment length")
    }
    adv := uint(l) - 2
    if r.remaining() < adv {
        return malformed("unexpected end of input")
    }
    r.pos += adv
    return nil
}
