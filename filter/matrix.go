package filter

import (
	"image"
	"math"
)

// colorMatrix is a 4x5 row-major transform over straight-alpha channels in
// [0, 255]. The fifth column is a bias.
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
type colorMatrix [20]float64

// rgbMatrix builds a matrix from a 3x3 color block and a per-channel bias,
// leaving alpha untouched.
func rgbMatrix(m [9]float64, bias float64) colorMatrix {
	return colorMatrix{
		m[0], m[1], m[2], 0, bias,
		m[3], m[4], m[5], 0, bias,
		m[6], m[7], m[8], 0, bias,
		0, 0, 0, 1, 0,
	}
}

func brightnessMatrix(f float64) colorMatrix {
	return rgbMatrix([9]float64{f, 0, 0, 0, f, 0, 0, 0, f}, 0)
}

// contrastMatrix maps c to (c-0.5)*f+0.5 in unit range.
func contrastMatrix(f float64) colorMatrix {
	return rgbMatrix([9]float64{f, 0, 0, 0, f, 0, 0, 0, f}, 127.5*(1-f))
}

func grayscaleMatrix(a float64) colorMatrix {
	a = 1 - unit(a)
	return rgbMatrix([9]float64{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a,
	}, 0)
}

func sepiaMatrix(a float64) colorMatrix {
	a = 1 - unit(a)
	return rgbMatrix([9]float64{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a,
	}, 0)
}

func invertMatrix(a float64) colorMatrix {
	a = unit(a)
	d := 1 - 2*a
	return rgbMatrix([9]float64{d, 0, 0, 0, d, 0, 0, 0, d}, 255*a)
}

func saturateMatrix(s float64) colorMatrix {
	return rgbMatrix([9]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}, 0)
}

func hueRotateMatrix(deg float64) colorMatrix {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return rgbMatrix([9]float64{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}, 0)
}

// unit clamps a percentage-derived amount to [0, 1].
func unit(a float64) float64 {
	return math.Min(math.Max(a, 0), 1)
}

// apply transforms img in place. Results are clamped to [0, 255].
func (m *colorMatrix) apply(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			r, g, bl, a := float64(px[0]), float64(px[1]), float64(px[2]), float64(px[3])
			px[0] = clampByte(m[0]*r + m[1]*g + m[2]*bl + m[3]*a + m[4])
			px[1] = clampByte(m[5]*r + m[6]*g + m[7]*bl + m[8]*a + m[9])
			px[2] = clampByte(m[10]*r + m[11]*g + m[12]*bl + m[13]*a + m[14])
			px[3] = clampByte(m[15]*r + m[16]*g + m[17]*bl + m[18]*a + m[19])
		}
	}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
