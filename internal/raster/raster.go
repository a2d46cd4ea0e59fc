// Package raster implements the Rasterizer: a depth-sorted painter's
// algorithm triangle rasterizer with barycentric coverage testing,
// nearest-neighbor texture sampling, and alpha "over" compositing.
//
// The sampling loop is adapted from the teacher's manual
// nearest-neighbor image resize in
// internal/graphics/renderables/blocks.InitTextureAtlas (ratio-based
// source-pixel lookup with clamping), generalized from a whole-image
// resize into per-pixel lookups inside an arbitrary triangle.
package raster

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Vertex is a rasterizer-space vertex: X/Y in pixel coordinates, Z for
// depth sorting (larger Z is farther, matching the orthographic
// projection's convention), and U/V in the source texture's native
// [0,16] unit space.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// TextureSource is the minimal pixel buffer the rasterizer samples
// from; internal/texture.Asset values are adapted into this shape by
// the caller so the rasterizer has no dependency on asset resolution.
type TextureSource struct {
	Pix    *image.RGBA
	Width  int
	Height int
}

// Triangle is one screen-space triangle ready to paint.
type Triangle struct {
	V            [3]Vertex
	Texture      TextureSource
	ElementIndex int
	FaceDir      string
	Tinted       bool
	Shaded       bool
}

// Priority returns the tinted-paints-last ordering key.
func (t Triangle) Priority() int {
	if t.Tinted {
		return 1
	}
	return 0
}

// Depth is the mean Z of the triangle's three vertices, the sort key
// spec §4.8 calls "descending depth" (farthest painted first).
func (t Triangle) Depth() float64 {
	return (t.V[0].Z + t.V[1].Z + t.V[2].Z) / 3
}

var shading = map[string]float64{
	"up":    1.0,
	"down":  0.5,
	"north": 0.8,
	"south": 0.8,
	"west":  0.6,
	"east":  0.6,
}

const baryTolerance = 1e-6

// Render paints triangles, sorted per spec §4.8 (descending depth,
// ascending priority, ascending element index), into a size x size
// RGBA image. background is filled first when non-nil; otherwise the
// image starts fully transparent.
func Render(triangles []Triangle, size int, background *color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if background != nil {
		draw(img, *background)
	}

	sorted := make([]Triangle, len(triangles))
	copy(sorted, triangles)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].Depth(), sorted[j].Depth()
		if di != dj {
			return di > dj
		}
		if sorted[i].Priority() != sorted[j].Priority() {
			return sorted[i].Priority() < sorted[j].Priority()
		}
		return sorted[i].ElementIndex < sorted[j].ElementIndex
	})

	for _, tri := range sorted {
		paint(img, tri, size)
	}
	return img
}

func draw(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func paint(img *image.RGBA, tri Triangle, size int) {
	minX, minY, maxX, maxY := boundingBox(tri, size)
	if minX > maxX || minY > maxY {
		return
	}
	brightness := shading[tri.FaceDir]
	if !tri.Shaded {
		brightness = 1.0
	}

	a, b, c := tri.V[0], tri.V[1], tri.V[2]
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0, w1, w2, ok := barycentric(a, b, c, px, py)
			if !ok {
				continue
			}
			u := w0*a.U + w1*b.U + w2*c.U
			v := w0*a.V + w1*b.V + w2*c.V
			src := sample(tri.Texture, u, v, brightness)
			if src.A == 0 {
				continue
			}
			dst := img.RGBAAt(x, y)
			img.SetRGBA(x, y, over(src, dst))
		}
	}
}

func boundingBox(tri Triangle, size int) (minX, minY, maxX, maxY int) {
	minXf := math.Min(tri.V[0].X, math.Min(tri.V[1].X, tri.V[2].X))
	minYf := math.Min(tri.V[0].Y, math.Min(tri.V[1].Y, tri.V[2].Y))
	maxXf := math.Max(tri.V[0].X, math.Max(tri.V[1].X, tri.V[2].X))
	maxYf := math.Max(tri.V[0].Y, math.Max(tri.V[1].Y, tri.V[2].Y))

	minX = clampInt(int(math.Floor(minXf)), 0, size-1)
	minY = clampInt(int(math.Floor(minYf)), 0, size-1)
	maxX = clampInt(int(math.Ceil(maxXf)), 0, size-1)
	maxY = clampInt(int(math.Ceil(maxYf)), 0, size-1)
	return
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// barycentric returns the barycentric weights of (px,py) against
// triangle (a,b,c) and whether the point lies inside within
// baryTolerance.
func barycentric(a, b, c Vertex, px, py float64) (w0, w1, w2 float64, inside bool) {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if denom == 0 {
		return 0, 0, 0, false
	}
	w0 = ((b.Y-c.Y)*(px-c.X) + (c.X-b.X)*(py-c.Y)) / denom
	w1 = ((c.Y-a.Y)*(px-c.X) + (a.X-c.X)*(py-c.Y)) / denom
	w2 = 1 - w0 - w1
	inside = w0 >= -baryTolerance && w1 >= -baryTolerance && w2 >= -baryTolerance
	return w0, w1, w2, inside
}

// sample performs nearest-neighbor lookup at UV (in [0,16] model
// units) against src, disabling wrap, then applies face-direction
// shading.
func sample(src TextureSource, u, v, brightness float64) color.RGBA {
	if src.Pix == nil || src.Width == 0 || src.Height == 0 {
		return color.RGBA{}
	}
	texX := int(math.Floor(u / 16 * float64(src.Width)))
	texY := int(math.Floor(v / 16 * float64(src.Height)))
	texX = clampInt(texX, 0, src.Width-1)
	texY = clampInt(texY, 0, src.Height-1)

	c := src.Pix.RGBAAt(texX, texY)
	return color.RGBA{
		R: scale8(c.R, brightness),
		G: scale8(c.G, brightness),
		B: scale8(c.B, brightness),
		A: c.A,
	}
}

func scale8(v uint8, f float64) uint8 {
	out := float64(v) * f
	if out > 255 {
		out = 255
	}
	if out < 0 {
		out = 0
	}
	return uint8(out + 0.5)
}

// over performs standard alpha "over" compositing of src atop dst.
func over(src, dst color.RGBA) color.RGBA {
	sa := float64(src.A) / 255
	da := float64(dst.A) / 255
	outA := sa + da*(1-sa)
	if outA == 0 {
		return color.RGBA{}
	}
	blend := func(s, d uint8) uint8 {
		sf, df := float64(s)/255, float64(d)/255
		out := (sf*sa + df*da*(1-sa)) / outA
		return clampColor(out)
	}
	return color.RGBA{
		R: blend(src.R, dst.R),
		G: blend(src.G, dst.G),
		B: blend(src.B, dst.B),
		A: clampColor(outA),
	}
}

func clampColor(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
