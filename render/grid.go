package render

import (
	"fmt"
	"math"
)

// AutoGrid computes a grid of cols×rows to neatly hold n items
func AutoGrid(n int) (cols, rows int) {
	if n <= 0 {
		return 1, 1
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return
}

// Tag names the grid cell in column col and row row, both 0-based: "A1",
// "B3", ...
func Tag(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row+1)
}
