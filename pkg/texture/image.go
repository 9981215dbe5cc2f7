package texture

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/arclight-render/arclight/pkg/core"
	"github.com/arclight-render/arclight/pkg/shape"
)

// Image samples a decoded raster by UV, nearest-neighbor, converting
// stored sRGB bytes to linear radiance per
// original_source/Textures/ImageTexture.hpp's SRGBToRGB.
type Image struct {
	Width, Height int
	Pixels        []core.Vec3 // row-major, linear color, Pixels[y*Width+x]
}

// LoadImage decodes a PNG/JPEG/BMP/TIFF file by extension and converts it
// to a linear-color Image, prefiltering with a Lanczos3 downsample
// (resize.Thumbnail, which keeps the aspect ratio) when maxDim is positive
// and smaller than the source, grounded on
// nfnt/resize's use elsewhere in the pack for texture prefiltering.
func LoadImage(path string, maxDim int) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening texture %q", path)
	}
	defer f.Close()

	img, err := decodeByExtension(f, path)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding texture %q", path)
	}

	if maxDim > 0 {
		b := img.Bounds()
		if b.Dx() > maxDim || b.Dy() > maxDim {
			img = resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
		}
	}

	return fromImage(img), nil
}

func decodeByExtension(r io.Reader, path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

func fromImage(img image.Image) *Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pixels := make([]core.Vec3, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			pixels[y*w+x] = core.NewVec3(
				srgbToLinear(float64(r)/65535.0),
				srgbToLinear(float64(g)/65535.0),
				srgbToLinear(float64(bl)/65535.0),
			)
		}
	}

	return &Image{Width: w, Height: h, Pixels: pixels}
}

func srgbToLinear(x float64) float64 {
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

// Evaluate samples nearest-neighbor at hit.UV, with V flipped so V=0 is
// the image's bottom row (matching the teacher's image_texture.go
// convention rather than the source's top-left-origin row order).
func (im *Image) Evaluate(hit shape.Hit) core.Vec3 {
	u := wrap01(hit.UV.X)
	v := wrap01(hit.UV.Y)

	x := int(u * float64(im.Width))
	y := int((1.0 - v) * float64(im.Height))
	if x >= im.Width {
		x = im.Width - 1
	}
	if y >= im.Height {
		y = im.Height - 1
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return im.Pixels[y*im.Width+x]
}

func wrap01(v float64) float64 {
	v -= math.Floor(v)
	if v < 0 {
		v += 1
	}
	return v
}
