package uniforms

import (
	"encoding/binary"
	stdmath "math"

	"github.com/Faultbox/shoreline/pkg/math"
)

// std140 writes values with std140 alignment: scalars take 4 bytes, vec4 and
// array elements start on 16 byte boundaries.
type std140 struct {
	buf []byte
}

func (w *std140) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *std140) float(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, stdmath.Float32bits(v))
}

// arrayFloat writes one element of a float array (stride 16).
func (w *std140) arrayFloat(v float32) {
	w.align(16)
	w.float(v)
	w.align(16)
}

func (w *std140) vec4(v math.Vec4) {
	w.align(16)
	for _, c := range v {
		w.float(c)
	}
}

func (w *std140) mat4(m math.Mat4) {
	w.align(16)
	for _, c := range m {
		w.float(c)
	}
}

func (w *std140) bytes() []byte {
	w.align(16)
	return w.buf
}
