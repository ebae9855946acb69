package terrain

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// MinSize is the smallest accepted grid.
const MinSize = 2

// LoadHeightmap decodes a grayscale image (PNG, JPEG, BMP, TIFF or TGA) and
// resamples it to a size x size grid.
func LoadHeightmap(path string, size int) (*Heightmap, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading heightmap: %w", err)
		}
		src, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
		}
		return FromImage(src, size), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}
	return FromImage(src, size), nil
}

// FromImage resamples an image to a size x size grid of luminance heights.
func FromImage(src image.Image, size int) *Heightmap {
	if size < MinSize {
		size = MinSize
	}
	dst := image.NewGray16(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	hm := &Heightmap{Heights: make([]float32, size*size), Size: size}
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			hm.Heights[z*size+x] = float32(dst.Gray16At(x, z).Y) / 0xffff
		}
	}
	return hm
}

// Procedural generates a deterministic island-shaped value-noise heightmap.
func Procedural(size int, seed int64) *Heightmap {
	if size < MinSize {
		size = MinSize
	}
	hm := &Heightmap{Heights: make([]float32, size*size), Size: size}

	var lo, hi float32 = 1, 0
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			u := float32(x) / float32(size-1)
			v := float32(z) / float32(size-1)

			h := fbm(u*4, v*4, seed, 5)

			// Fade towards the border so the edges sink below the water.
			dx, dz := u-0.5, v-0.5
			falloff := 1 - clampf(float32(gomath.Sqrt(float64(dx*dx+dz*dz)))*1.6, 0, 1)
			h *= 0.35 + 0.65*falloff

			hm.Heights[z*size+x] = h
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}

	if span := hi - lo; span > 0 {
		for i, h := range hm.Heights {
			hm.Heights[i] = (h - lo) / span
		}
	}
	return hm
}

// At returns the height of a grid sample, clamping coordinates to the grid.
func (hm *Heightmap) At(x, z int) float32 {
	x = max(0, min(x, hm.Size-1))
	z = max(0, min(z, hm.Size-1))
	return hm.Heights[z*hm.Size+x]
}

// Sample returns the bilinearly interpolated height at fractional grid
// coordinates.
func (hm *Heightmap) Sample(fx, fz float32) float32 {
	fx = clampf(fx, 0, float32(hm.Size-1))
	fz = clampf(fz, 0, float32(hm.Size-1))
	x0, z0 := int(fx), int(fz)
	tx, tz := fx-float32(x0), fz-float32(z0)

	south := hm.At(x0, z0)*(1-tx) + hm.At(x0+1, z0)*tx
	north := hm.At(x0, z0+1)*(1-tx) + hm.At(x0+1, z0+1)*tx
	return south*(1-tz) + north*tz
}

// HeightAt returns the world height at a world position for terrain built
// with p.
func (hm *Heightmap) HeightAt(p Params, worldX, worldZ float32) float32 {
	cell := p.Extent / float32(hm.Size-1)
	fx := (worldX + p.Extent/2) / cell
	fz := (worldZ + p.Extent/2) / cell
	return hm.Sample(fx, fz)*p.HeightScale + p.Offset
}

func fbm(x, y float32, seed int64, octaves int) float32 {
	var sum, amp, norm float32 = 0, 1, 0
	for o := 0; o < octaves; o++ {
		sum += valueNoise(x, y, seed+int64(o)*1013) * amp
		norm += amp
		amp *= 0.5
		x *= 2
		y *= 2
	}
	return sum / norm
}

func valueNoise(x, y float32, seed int64) float32 {
	x0 := int64(gomath.Floor(float64(x)))
	y0 := int64(gomath.Floor(float64(y)))
	tx := smooth(x - float32(x0))
	ty := smooth(y - float32(y0))

	a := lattice(x0, y0, seed)
	b := lattice(x0+1, y0, seed)
	c := lattice(x0, y0+1, seed)
	d := lattice(x0+1, y0+1, seed)

	top := a + (b-a)*tx
	bottom := c + (d-c)*tx
	return top + (bottom-top)*ty
}

func smooth(t float32) float32 {
	return t * t * (3 - 2*t)
}

// lattice hashes integer coordinates to [0,1].
func lattice(x, y, seed int64) float32 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ uint64(seed)*0x165667B19E3779F9
	h ^= h >> 31
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 29
	return float32(h>>40) / float32(1<<24)
}

func clampf(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
