package render

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	chartWidth   = 600
	chartHeight  = 200
	chartPadding = 20
)

// Sparkline draws values as an inline SVG polyline. Fewer than two points
// yield an empty fragment.
func Sparkline(values []float64) template.HTML {
	if len(values) < 2 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	innerW := float64(chartWidth - 2*chartPadding)
	innerH := float64(chartHeight - 2*chartPadding)
	step := innerW / float64(len(values)-1)

	points := make([]string, len(values))
	for i, v := range values {
		x := chartPadding + float64(i)*step
		y := chartPadding + innerH - (v-lo)/span*innerH
		points[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#fafafa" stroke="#ddd"/>`)
	fmt.Fprintf(&b, `<polyline fill="none" stroke="#2E8B57" stroke-width="2" points="%s"/>`, strings.Join(points, " "))
	fmt.Fprintf(&b, `<text x="%d" y="14" font-size="11" fill="#555">%s</text>`, chartPadding, money(hi))
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="11" fill="#555">%s</text>`, chartPadding, chartHeight-4, money(lo))
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

