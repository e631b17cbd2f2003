package layout

import (
	"fmt"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

// Verify replays the directives on a column grid and checks that every
// physical row covers exactly [Layout.Columns] columns and that every
// rowspan is matched by the rows that follow it.
func (l *Layout) Verify() error {
	cols := l.Columns()
	remaining := make([]int, cols) // rows a spanning cell still covers, per column
	row := 0
	cursor := 0
	started := false

	startRow := func() {
		cursor = 0
		for cursor < cols && remaining[cursor] > 0 {
			cursor++
		}
		started = true
	}
	endRow := func() error {
		if cursor != cols {
			return fmt.Errorf("row %d covers %d of %d columns", row, cursor, cols)
		}
		for i := range remaining {
			if remaining[i] > 0 {
				remaining[i]--
			}
		}
		row++
		started = false
		return nil
	}

	for i, d := range l.Directives {
		if !started && d.Op != OpSeparator {
			startRow()
		}
		switch d.Op {
		case OpParentCell, OpDataRow:
			if d.Column != cursor {
				return wlerrors.New(wlerrors.ErrCodeInternal, "directive %d (%s %q) starts at column %d, expected %d", i, d.Op, d.Title, d.Column, cursor)
			}
			width := d.ColSpan
			if d.Op == OpDataRow {
				width++
			}
			if width < 1 || cursor+width > cols {
				return wlerrors.New(wlerrors.ErrCodeInternal, "directive %d (%s %q) spans %d columns from %d of %d", i, d.Op, d.Title, width, cursor, cols)
			}
			if d.Op == OpParentCell {
				if d.RowSpan < 1 {
					return wlerrors.New(wlerrors.ErrCodeInternal, "directive %d (%q) has rowspan %d", i, d.Title, d.RowSpan)
				}
				for c := cursor; c < cursor+width; c++ {
					remaining[c] = d.RowSpan
				}
			}
			cursor += width
		case OpSeparator:
			if !started {
				return wlerrors.New(wlerrors.ErrCodeInternal, "directive %d: separator without a row", i)
			}
			if err := endRow(); err != nil {
				return wlerrors.Wrap(wlerrors.ErrCodeInternal, err, "directive %d", i)
			}
		}
	}
	if started {
		if err := endRow(); err != nil {
			return wlerrors.Wrap(wlerrors.ErrCodeInternal, err, "last row")
		}
	}
	for c, r := range remaining {
		if r > 0 {
			return wlerrors.New(wlerrors.ErrCodeInternal, "column %d: rowspan exceeds emitted rows by %d", c, r)
		}
	}
	return nil
}
