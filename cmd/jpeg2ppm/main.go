// Command jpeg2ppm decodes a baseline JPEG file and writes it out as a
// binary PPM (P6) image. It is the reference external collaborator for
// the jpeg package: a file loader feeding jpeg.Decode, and a PPM sink
// serializing the resulting Bitmap.
package main

import (
    "flag"
    "fmt"
    "os"

    "github.com/jrm-1535/bjpeg"
)

func main() {
    var in, out string
    var verbose bool
    flag.StringVar(&in, "i", "", "Input JPEG file path")
    flag.StringVar(&out, "o", "", "Output PPM file path")
    flag.BoolVar(&verbose, "v", false, "Trace markers and MCUs while decoding")
    flag.Parse()

    if in == "" || out == "" {
        fmt.Fprintf(os.Stderr, "jpeg2ppm: -i and -o are required\n")
        os.Exit(1)
    }

    data, err := os.ReadFile(in)
    if err != nil {
        fmt.Fprintf(os.Stderr, "jpeg2ppm: cant read input %s: %s\n", in, err)
        os.Exit(1)
    }

    var tr *jpeg.Trace
    if verbose {
        tr = &jpeg.Trace{Markers: true, MCUs: true, Out: os.Stderr}
    }

    bmp, err := jpeg.DecodeTrace(data, tr)
    if err != nil {
        fmt.Fprintf(os.Stderr, "jpeg2ppm: cant decode %s: %s\n", in, err)
        os.Exit(1)
    }

    f, err := os.Create(out)
    if err != nil {
        fmt.Fprintf(os.Stderr, "jpeg2ppm: cant create output %s: %s\n", out, err)
        os.Exit(1)
    }
    defer f.Close()

    if err := writePPM(f, bmp); err != nil {
        fmt.Fprintf(os.Stderr, "jpeg2ppm: cant write output %s: %s\n", out, err)
        os.Exit(1)
    }
}

// writePPM serializes a Bitmap as a binary PPM (P6): header then raw
// interleaved RGB bytes, which is exactly the Bitmap's own layout.
func writePPM(f *os.File, bmp *jpeg.Bitmap) error {
    if bmp.Channels != 3 {
        return fmt.Errorf("jpeg2ppm: unsupported channel count %d", bmp.Channels)
    }
    if _, err := fmt.Fprintf(f, "P6\n%d %d\n255\n", bmp.Width, bmp.Height); err != nil {
        return err
    }
    _, err := f.Write(bmp.Data)
    return err
}
