package film

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/arclight-render/arclight/pkg/math32"
)

// WritePPM writes a binary PPM (P6), sRGB-encoding each linear pixel to an
// 8-bit channel, matching Image.hpp's ExportPPM.
func (f *Film) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", f.width, f.height); err != nil {
		return err
	}

	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := f.Pixel(x, y)
			if err := bw.WriteByte(linearToSRGB8(c.X)); err != nil {
				return err
			}
			if err := bw.WriteByte(linearToSRGB8(c.Y)); err != nil {
				return err
			}
			if err := bw.WriteByte(linearToSRGB8(c.Z)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// WriteRaw32 writes little-endian packed f32 triples per pixel in linear
// color, matching Image.hpp's ExportRaw32.
func (f *Film) WriteRaw32(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := math32.FromVec3(f.Pixel(x, y))
			if err := binary.Write(bw, binary.LittleEndian, c.X); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, c.Y); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, c.Z); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func linearToSRGB8(c float64) byte {
	if c <= 0.0031308 {
		c = 12.92 * c
	} else {
		c = 1.055*math.Pow(c, 1.0/2.4) - 0.055
	}
	v := int(c*255.0 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}
