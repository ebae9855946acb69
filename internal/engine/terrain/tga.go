package terrain

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types accepted as heightmaps.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color or grayscale TGA into
// a grayscale image. Color pixels are reduced to their luminance.
func DecodeTGA(data []byte) (*image.Gray, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	if data[1] != 0 {
		return nil, errors.New("tga: color-mapped images are not supported")
	}
	kind := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topDown := data[17]&0x20 != 0

	gray := kind == tgaGray || kind == tgaGrayRLE
	switch {
	case kind != tgaTrueColor && kind != tgaGray && kind != tgaTrueColorRLE && kind != tgaGrayRLE:
		return nil, fmt.Errorf("tga: unsupported image type %d", kind)
	case gray && bpp != 8:
		return nil, fmt.Errorf("tga: unsupported grayscale depth %d", bpp)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: unsupported color depth %d", bpp)
	case width == 0 || height == 0:
		return nil, errors.New("tga: empty image")
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	px := tgaPixels{
		img:     image.NewGray(image.Rect(0, 0, width, height)),
		width:   width,
		height:  height,
		stride:  bpp / 8,
		topDown: topDown,
	}
	var err error
	if kind == tgaTrueColorRLE || kind == tgaGrayRLE {
		err = px.decodeRLE(data[offset:])
	} else {
		err = px.decodeRaw(data[offset:])
	}
	if err != nil {
		return nil, err
	}
	return px.img, nil
}

// tgaPixels writes decoded pixels in file order into a grayscale image.
type tgaPixels struct {
	img     *image.Gray
	width   int
	height  int
	stride  int
	topDown bool
	next    int
}

func (p *tgaPixels) done() bool { return p.next >= p.width*p.height }

// put stores one pixel given in TGA byte order (BGR[A] or Y).
func (p *tgaPixels) put(b []byte) {
	var y uint8
	if p.stride == 1 {
		y = b[0]
	} else {
		y = color.GrayModel.Convert(color.RGBA{R: b[2], G: b[1], B: b[0], A: 0xff}).(color.Gray).Y
	}

	x, row := p.next%p.width, p.next/p.width
	if !p.topDown {
		row = p.height - 1 - row
	}
	p.img.SetGray(x, row, color.Gray{Y: y})
	p.next++
}

func (p *tgaPixels) decodeRaw(data []byte) error {
	if len(data) < p.width*p.height*p.stride {
		return errTGATruncated
	}
	for i := 0; !p.done(); i += p.stride {
		p.put(data[i : i+p.stride])
	}
	return nil
}

func (p *tgaPixels) decodeRLE(data []byte) error {
	i := 0
	for !p.done() {
		if i >= len(data) {
			return errTGATruncated
		}
		packet := data[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if i+p.stride > len(data) {
				return errTGATruncated
			}
			pixel := data[i : i+p.stride]
			i += p.stride
			for n := 0; n < count && !p.done(); n++ {
				p.put(pixel)
			}
			continue
		}

		for n := 0; n < count && !p.done(); n++ {
			if i+p.stride > len(data) {
				return errTGATruncated
			}
			p.put(data[i : i+p.stride])
			i += p.stride
		}
	}
	return nil
}
