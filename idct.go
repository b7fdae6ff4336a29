package jpeg

import "math"

// cosTable[x][u] = cos((2x+1)*u*pi/16), precomputed once at init time.
var cosTable [8][8]float64

func init() {
    for x := 0; x < 8; x++ {
        for u := 0; u < 8; u++ {
            cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16.0)
        }
    }
}

func alpha(k int) float64 {
    if k == 0 {
        return 1.0 / math.Sqrt2
    }
    return 1.0
}

// inverseDCT8x8 performs the standard 8x8 type-II inverse DCT over coeff,
// indexed [row=v][col=u] (matching the zig-zag un-mapping in block.go),
// and returns signed, zero-centered samples truncated toward zero. The
// level shift back to 0..255 happens later, during color conversion.
func inverseDCT8x8(coeff *[8][8]int16) [8][8]int16 {
    var out [8][8]int16
    for y := 0; y < 8; y++ {
        for x := 0; x < 8; x++ {
            var sum float64
            for v := 0; v < 8; v++ {
                cv := alpha(v)
                for u := 0; u < 8; u++ {
                    if coeff[v][u] == 0 {
                        continue
                    }
                    cu := alpha(u)
                    sum += cu * cv * cosTable[x][u] * cosTable[y][v] * float64(coeff[v][u])
                }
            }
            sum *= 0.25
            out[y][x] = int16(math.Trunc(sum))
        }
    }
    return out
}
