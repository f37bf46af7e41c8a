/*
DESCRIPTION
  pnm.go writes a decoded image as a raw PGM (monochrome) or PPM
  (color) file, the minimal byte-pixel hand-off between the core and
  its image I/O collaborators.

AUTHORS
  FIASCO-Go contributors

LICENSE
  Copyright (C) 2026 the FIASCO-Go project contributors.
*/

package fiasco

import (
	"fmt"
	"io"

	"github.com/fiascogo/fiasco/image"
)

func writePNM(w io.Writer, img *image.Image) error {
	if img.Color {
		if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", img.Width, img.Height); err != nil {
			return err
		}
		return writeRGB(w, img)
	}
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return err
	}
	return writeGray(w, img.Planes[image.GRAY])
}

func writeGray(w io.Writer, p *image.Plane) error {
	row := make([]byte, p.Width)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			row[x] = sampleToByte(p.At(x, y))
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeRGB(w io.Writer, img *image.Image) error {
	row := make([]byte, img.Width*3)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			cx, cy := x, y
			if img.Format == image.Format420 {
				cx, cy = x/2, y/2
			}
			yv := img.Planes[image.Y].At(x, y)
			cb := img.Planes[image.Cb].At(cx, cy)
			cr := img.Planes[image.Cr].At(cx, cy)
			r, g, b := image.YCbCrToRGB(yv, cb, cr)
			row[x*3], row[x*3+1], row[x*3+2] = r, g, b
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func sampleToByte(v int16) byte {
	scaled := float64(v)/16 + 128
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled + 0.5)
}
