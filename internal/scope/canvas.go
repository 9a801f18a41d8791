package scope

import "strings"

// Surface is a pixel display the scope draws on.
type Surface interface {
	Size() (width, height int)
	Clear()
	SetPixel(x, y int, c Color)
	Line(x0, y0, x1, y1 int, c Color)
	Text(x, y int, s string, c Color)
	Present() string
}

// Braille dot positions (col, row) to bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Canvas is a Surface backed by terminal cells. Every cell holds a 2x4 grid
// of Braille dots, so a canvas of cols x rows cells has 2*cols x 4*rows pixels.
// Text is placed on whole cells and hides the dots underneath.
type Canvas struct {
	cols, rows int
	dots       []uint8
	ink        []Color
	text       []rune
	profile    colorProfile
}

var _ Surface = (*Canvas)(nil)

// NewCanvas creates a blank canvas of cols x rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{profile: currentColorProfile()}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell dimensions and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 1), max(rows, 1)
	n := c.cols * c.rows
	c.dots = make([]uint8, n)
	c.ink = make([]Color, n)
	c.text = make([]rune, n)
}

func (c *Canvas) Size() (int, int) { return c.cols * 2, c.rows * 4 }

func (c *Canvas) Clear() {
	clear(c.dots)
	clear(c.text)
}

func (c *Canvas) SetPixel(x, y int, col Color) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	i := (y/4)*c.cols + x/2
	c.dots[i] |= 1 << brailleBits[x%2][y%4]
	c.ink[i] = col
}

func (c *Canvas) Line(x0, y0, x1, y1 int, col Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		c.SetPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Text writes s starting at the cell containing pixel (x, y), clipped to the row.
func (c *Canvas) Text(x, y int, s string, col Color) {
	if y < 0 {
		return
	}
	row := y / 4
	if row >= c.rows {
		return
	}
	cell := x / 2
	if x < 0 {
		cell = (x - 1) / 2
	}
	for _, r := range s {
		if cell >= c.cols {
			return
		}
		if cell >= 0 {
			i := row*c.cols + cell
			c.text[i] = r
			c.ink[i] = col
		}
		cell++
	}
}

func (c *Canvas) Present() string {
	var out strings.Builder
	color := newANSIState(c.profile)
	for row := range c.rows {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := range c.cols {
			i := row*c.cols + col
			switch {
			case c.text[i] != 0 && c.text[i] != ' ':
				color.set(&out, c.ink[i])
				out.WriteRune(c.text[i])
			case c.text[i] == ' ' || c.dots[i] == 0:
				out.WriteByte(' ')
			default:
				color.set(&out, c.ink[i])
				out.WriteRune(rune(0x2800 + int(c.dots[i])))
			}
		}
		color.reset(&out)
	}
	return out.String()
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
