package detection

import (
	"image"
)

// Contour is an ordered, closed sequence of boundary pixels. The last point is
// implicitly connected back to the first.
type Contour []image.Point

// neighbours lists the 8 Moore directions clockwise on screen (Y down),
// starting east.
var neighbours = [8]image.Point{
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
}

const dirWest = 4

// FindContours returns the outer boundary of every external component of a
// binary edge map.
//
// Non-zero pixels are foreground and are grouped into 8-connected components.
// A component is external when it is reachable from the image border through
// background, i.e. it is not enclosed by another component. Components nested
// inside another one are ignored.
//
// Contours are returned in raster order of their first pixel, in the
// coordinates of edges.
//
// # Algorithm
//
//  1. Label 8-connected foreground components with an iterative flood fill
//  2. Flood the background from the border with 4-connectivity
//  3. Mark components touching the border or the flooded background
//  4. Trace each marked component with Moore-neighbour tracing
func FindContours(edges *image.Gray) []Contour {
	bounds := edges.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	fg := make([]bool, width*height)
	for y := 0; y < height; y++ {
		row := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			fg[y*width+x] = row[x] != 0
		}
	}

	labels, starts := labelComponents(fg, width, height)
	if len(starts) == 0 {
		return nil
	}
	outside := floodBackground(fg, width, height)

	external := make([]bool, len(starts)+1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := labels[y*width+x]
			if l == 0 || external[l] {
				continue
			}
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				external[l] = true
				continue
			}
			if outside[y*width+x-1] || outside[y*width+x+1] ||
				outside[(y-1)*width+x] || outside[(y+1)*width+x] {
				external[l] = true
			}
		}
	}

	contours := make([]Contour, 0)
	for i, start := range starts {
		l := int32(i + 1)
		if !external[l] {
			continue
		}
		c := traceBoundary(labels, width, height, l, start)
		for j := range c {
			c[j] = c[j].Add(bounds.Min)
		}
		contours = append(contours, c)
	}
	return contours
}

// labelComponents assigns 8-connected component labels starting at 1 and
// returns the first pixel of each component in raster order.
func labelComponents(fg []bool, width, height int) ([]int32, []image.Point) {
	labels := make([]int32, width*height)
	starts := make([]image.Point, 0)
	stack := make([]int, 0, 64)

	for i, on := range fg {
		if !on || labels[i] != 0 {
			continue
		}
		starts = append(starts, image.Pt(i%width, i/width))
		l := int32(len(starts))
		labels[i] = l
		stack = append(stack[:0], i)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width

			for _, d := range neighbours {
				nx, ny := px+d.X, py+d.Y
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if fg[n] && labels[n] == 0 {
					labels[n] = l
					stack = append(stack, n)
				}
			}
		}
	}
	return labels, starts
}

// floodBackground marks background pixels 4-connected to the image border.
func floodBackground(fg []bool, width, height int) []bool {
	outside := make([]bool, width*height)
	stack := make([]int, 0, 2*(width+height))

	seed := func(x, y int) {
		i := y*width + x
		if !fg[i] && !outside[i] {
			outside[i] = true
			stack = append(stack, i)
		}
	}
	for x := 0; x < width; x++ {
		seed(x, 0)
		seed(x, height-1)
	}
	for y := 0; y < height; y++ {
		seed(0, y)
		seed(width-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		px, py := p%width, p/width

		if px > 0 {
			seed(px-1, py)
		}
		if px < width-1 {
			seed(px+1, py)
		}
		if py > 0 {
			seed(px, py-1)
		}
		if py < height-1 {
			seed(px, py+1)
		}
	}
	return outside
}

// traceBoundary follows the outer boundary of component l clockwise, starting
// at its first pixel in raster order.
//
// The tracer scans the Moore neighbourhood clockwise from the last background
// pixel visited. It stops when it is back on the start pixel and about to
// repeat its first move, so pixels on one-pixel-wide necks may appear twice.
// An isolated pixel yields a single-point contour.
func traceBoundary(labels []int32, width, height int, l int32, start image.Point) Contour {
	in := func(p image.Point) bool {
		return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height && labels[p.Y*width+p.X] == l
	}

	contour := Contour{start}
	cur := start
	// Nothing precedes the start pixel in raster order, so its west side is background.
	back := dirWest
	limit := 4*width*height + 8

	for n := 0; n < limit; n++ {
		d, ok := nextDirection(in, cur, back)
		if !ok {
			return contour
		}
		next := cur.Add(neighbours[d])
		if cur == start && len(contour) > 1 && next == contour[1] {
			return contour[:len(contour)-1]
		}
		contour = append(contour, next)
		cur = next

		// Point back at the background pixel examined just before next,
		// expressed relative to next.
		if d%2 == 0 {
			back = (d + 6) % 8
		} else {
			back = (d + 5) % 8
		}
	}
	return contour
}

// nextDirection returns the first foreground neighbour of p clockwise after
// the direction back.
func nextDirection(in func(image.Point) bool, p image.Point, back int) (int, bool) {
	for i := 1; i <= 8; i++ {
		d := (back + i) % 8
		if in(p.Add(neighbours[d])) {
			return d, true
		}
	}
	return 0, false
}
