package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"

	"github.com/crazy3lf/colorconv"
	"github.com/icza/mjpeg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	videoFPS    = 10
	labelHeight = 16
)

// fieldVideo streams mid-plane slices of both substance grids into an
// MJPEG file, one panel per substance, with a step label strip on top.
type fieldVideo struct {
	writer  mjpeg.AviWriter
	palette [256]color.RGBA
	scale   int
	width   int32
	height  int32
	buf     bytes.Buffer
}

func newFieldVideo(outDir string, L int) (*fieldVideo, error) {
	scale := 256 / L
	if scale < 1 {
		scale = 1
	}
	// a one-voxel gap column separates the two panels
	w := int32(2*L*scale + scale)
	h := int32(L*scale + labelHeight)
	aw, err := mjpeg.New(filepath.Join(outDir, "field.avi"), w, h, videoFPS)
	if err != nil {
		return nil, err
	}
	v := &fieldVideo{writer: aw, scale: scale, width: w, height: h}
	for i := range v.palette {
		// blue (empty) through red (saturated)
		r, g, b, _ := colorconv.HSVToRGB(240-240*float64(i)/255, 1, 1)
		v.palette[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return v, nil
}

// addFrame renders the z mid-plane of both grids and appends it as one
// video frame.
func (v *fieldVideo) addFrame(f *Field, step int, phase string) error {
	if v == nil {
		return nil
	}
	L := f.L
	z := L / 2
	img := image.NewRGBA(image.Rect(0, 0, int(v.width), int(v.height)))
	for s := 0; s < numSubstances; s++ {
		xOff := s * (L*v.scale + v.scale)
		for x := 0; x < L; x++ {
			for y := 0; y < L; y++ {
				c := f.grids[s][f.idx(x, y, z)]
				if c < 0 {
					c = 0
				} else if c > 1 {
					c = 1
				}
				col := v.palette[int(c*255)]
				for px := 0; px < v.scale; px++ {
					for py := 0; py < v.scale; py++ {
						img.SetRGBA(xOff+x*v.scale+px, labelHeight+y*v.scale+py, col)
					}
				}
			}
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 12),
	}
	d.DrawString(fmt.Sprintf("step %d (%s)", step, phase))

	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, img, nil); err != nil {
		return err
	}
	return v.writer.AddFrame(v.buf.Bytes())
}

func (v *fieldVideo) close() error {
	if v == nil {
		return nil
	}
	return v.writer.Close()
}
