package text

import "strings"

// Wrap breaks s into lines no wider than maxWidth, greedily at spaces.
// Explicit newlines are kept. A word wider than maxWidth gets a line of
// its own. A non-positive maxWidth puts every word on its own line.
func Wrap(m Measurer, s string, size, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if m.Width(candidate, size) <= maxWidth {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}

// Block is wrapped text with its extent.
type Block struct {
	Lines      []string
	Width      float64
	Height     float64
	LineHeight float64
}

// Layout wraps s to maxWidth and measures the result.
func Layout(m Measurer, s string, size, maxWidth float64) Block {
	lines := Wrap(m, s, size, maxWidth)
	b := Block{Lines: lines, LineHeight: m.LineHeight(size)}
	for _, l := range lines {
		b.Width = max(b.Width, m.Width(l, size))
	}
	b.Height = float64(len(lines)) * b.LineHeight
	return b
}

// Natural returns the extent of s without wrapping.
func Natural(m Measurer, s string, size float64) Block {
	lines := strings.Split(s, "\n")
	b := Block{Lines: lines, LineHeight: m.LineHeight(size)}
	for _, l := range lines {
		b.Width = max(b.Width, m.Width(l, size))
	}
	b.Height = float64(len(lines)) * b.LineHeight
	return b
}
