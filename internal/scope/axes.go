package scope

import (
	"fmt"
	"time"

	"github.com/olivier-w/cliscope/internal/util"
)

// DrawAxes draws the voltage and time axes with their dashes and labels.
// division is the time span of one horizontal division; zero omits time labels.
func DrawAxes(s Surface, l Layout, division time.Duration) {
	midX, midY := l.XMax/2, l.YMax/2

	s.Line(midX, 0, midX, l.YMax, Red)
	dashStart, dashEnd := midX-dashWidth/2, midX+dashWidth/2

	label := 0
	for y := midY; y >= 0; y -= l.PixelPerVolt {
		s.Line(dashStart, y, dashEnd, y, Red)
		if label%labelEvery == 0 {
			s.Text(dashStart-8, y, fmt.Sprintf("%3d", label), White)
		}
		label++
	}
	label = 0
	for y := midY; y <= l.YMax; y += l.PixelPerVolt {
		s.Line(dashStart, y, dashEnd, y, Red)
		if label%labelEvery == 0 && label >= VoltMin {
			s.Text(dashStart-8, y, fmt.Sprintf("%3d", label), White)
		}
		label--
	}

	s.Line(0, midY, l.XMax, midY, Red)
	dashStart, dashEnd = midY-dashWidth/2, midY+dashWidth/2

	label = 0
	for x := l.FirstLabel; x <= l.XMax && label <= SecondsToDisplay; x += l.PixelPerSecond {
		s.Line(x, dashStart, x, dashEnd, Red)
		if division > 0 && label%2 == 0 && label > 0 && label < SecondsToDisplay {
			s.Text(x-2, dashEnd+4, util.FormatSpan(time.Duration(label)*division), White)
		}
		label++
	}
}
