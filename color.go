package jpeg

// Bitmap is the decoder's sole output: an interleaved RGB byte buffer of
// the unpadded image size.
type Bitmap struct {
    Channels uint8
    Width    uint16
    Height   uint16
    Data     []byte
}

// clampByte truncates toward zero and clamps to 0..255.
func clampByte(v float64) byte {
    i := int(v) // Go truncates float->int toward zero
    if i < 0 {
        return 0
    }
    if i > 255 {
        return 255
    }
    return byte(i)
}

// ycbcrToRGB converts one (Y, Cb, Cr) sample, each still zero-centered
// from the IDCT (no level shift applied yet), into clamped 8-bit RGB.
func ycbcrToRGB(y, cb, cr int16) (r, g, b byte) {
    yf := float64(y)
    cbf := float64(cb)
    crf := float64(cr)

    rf := crf*(2-2*0.299) + yf
    bf := cbf*(2-2*0.114) + yf
    gf := (yf - 0.114*bf - 0.299*rf) / 0.587

    r = clampByte(rf + 128)
    g = clampByte(gf + 128)
    b = clampByte(bf + 128)
    return
}

// writeMCU projects one decoded, upsampled MCU into the output bitmap at
// macroblock (bx, by), clipping to the unpadded image bounds. planes is
// indexed by component identity (id-1: Y=id 1, Cb=id 2, Cr=id 3), not by
// scan-list position, since SOS may list its components in any order.
func writeMCU(bmp *Bitmap, planes [3]*plane, mcu mcuInfo, bx, by int) {
    yPlane, cbPlane, crPlane := planes[0], planes[1], planes[2]
    if yPlane == nil || cbPlane == nil || crPlane == nil {
        panic("writeMCU: all three components (Y, Cb, Cr) are required")
    }

    originY := by * mcu.mcuH
    originX := bx * mcu.mcuW
    w, h := int(bmp.Width), int(bmp.Height)

    for py := 0; py < mcu.mcuH; py++ {
        imgY := originY + py
        if imgY >= h {
            break
        }
        for px := 0; px < mcu.mcuW; px++ {
            imgX := originX + px
            if imgX >= w {
                break
            }
            r, g, b := ycbcrToRGB(yPlane.at(py, px), cbPlane.at(py, px), crPlane.at(py, px))
            idx := (imgY*w + imgX) * 3
            bmp.Data[idx+0] = r
            bmp.Data[idx+1] = g
            bmp.Data[idx+2] = b
        }
    }
}
