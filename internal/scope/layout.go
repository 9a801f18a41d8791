package scope

import (
	"fmt"
	"time"

	"github.com/olivier-w/cliscope/internal/util"
)

const (
	VoltMin          = -15
	VoltMax          = 15
	SecondsToDisplay = 10 // time divisions across the plot

	numVoltLabels = VoltMax - VoltMin
	dashWidth     = 4
)

// labelEvery is the volt step between printed axis labels.
var labelEvery = max(int(VoltMax/7.5), 1)

// Layout maps volts and sample positions to pixels on a surface of a given size.
type Layout struct {
	XMax, YMax     int
	PixelPerVolt   int
	PixelPerSecond int // pixels per time division
	FirstLabel     int // x of the first time division
}

// NewLayout derives the plot geometry for a surface of width x height pixels.
func NewLayout(width, height int) Layout {
	l := Layout{XMax: max(width-1, 1), YMax: max(height-1, 1)}
	l.PixelPerVolt = max(l.YMax/numVoltLabels, 1)
	l.PixelPerSecond = max(l.XMax/SecondsToDisplay, 1)
	l.FirstLabel = l.XMax/2 - (SecondsToDisplay/2)*l.PixelPerSecond
	return l
}

// LastLabel is the x of the last time division.
func (l Layout) LastLabel() int {
	return l.FirstLabel + SecondsToDisplay*l.PixelPerSecond
}

// PlotWidth is the number of pixels between the first and last time division.
func (l Layout) PlotWidth() int {
	return SecondsToDisplay * l.PixelPerSecond
}

// YFromVolt returns the row for v. Readings outside [VoltMin, VoltMax] are
// parked one volt below the time axis.
func (l Layout) YFromVolt(v float64) int {
	mid := l.YMax / 2
	if v > VoltMax || v < VoltMin {
		return mid + l.PixelPerVolt
	}
	return int(float64(mid) - v*float64(l.PixelPerVolt))
}

// XFromSample returns the column of sample i of an n-sample frame. Frames that
// fit get one pixel per sample; longer frames are compressed onto the plot.
func (l Layout) XFromSample(i, n int) int {
	w := l.PlotWidth()
	if n <= w+1 || n < 2 {
		return l.FirstLabel + i
	}
	return l.FirstLabel + i*w/(n-1)
}

// SamplesPerDivision returns how many samples of an n-sample frame fall in
// one time division.
func (l Layout) SamplesPerDivision(n int) float64 {
	if n <= l.PlotWidth()+1 || n < 2 {
		return float64(l.PixelPerSecond)
	}
	return float64(n-1) / SecondsToDisplay
}

// Division returns the time span of one division when samples are interval apart.
func (l Layout) Division(n int, interval time.Duration) time.Duration {
	return time.Duration(l.SamplesPerDivision(n) * float64(interval))
}

// XFromTime returns the column of a sweep position, wrapping every
// SecondsToDisplay divisions. perDivision is the tick count of one division.
func (l Layout) XFromTime(ticks, perDivision int64) int {
	if perDivision <= 0 {
		return l.FirstLabel
	}
	x := ticks * int64(l.PixelPerSecond) / perDivision
	return int(x%int64(l.PlotWidth())) + l.FirstLabel
}

// InfoText renders a reading for the top-left corner.
func InfoText(v float64) string {
	return fmt.Sprintf("U = %s", util.FormatVolts(v))
}
