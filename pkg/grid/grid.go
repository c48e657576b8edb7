// Package grid maps between linear cell indices and text-grid coordinates.
package grid

// GetGridCoords returns the column and row of cell index in a grid that is
// cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	if cols <= 0 {
		return 0, 0
	}
	return index % cols, index / cols
}

// Wrap lays lines out on a grid cols wide and rows high, breaking long
// lines across rows. Cells that hold no character are zero. Lines past the
// last row are dropped.
func Wrap(lines []string, cols, rows int) []rune {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cells := make([]rune, cols*rows)
	row := 0
	for _, line := range lines {
		runes := []rune(line)
		for {
			if row >= rows {
				return cells
			}
			n := min(len(runes), cols)
			copy(cells[row*cols:], runes[:n])
			runes = runes[n:]
			row++
			if len(runes) == 0 {
				break
			}
		}
	}
	return cells
}
