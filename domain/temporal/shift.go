package temporal

import (
	"strconv"

	"tabular/domain/frame"
)

// ShiftFrame shifts the named columns by n positions, positive n toward later
// rows. With no columns named, every column shifts. Vacated positions become
// missing, so a shift against an unshifted copy yields lagged comparisons.
func ShiftFrame(f *frame.Frame, n int, cols ...string) (*frame.Frame, error) {
	if len(cols) == 0 {
		cols = f.Columns()
	}
	out := f
	for _, name := range cols {
		s, err := out.Column(name)
		if err != nil {
			return nil, err
		}
		out, err = out.WithColumn(name, s.Shift(n))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Lagged pairs each column value with its value n rows earlier, appending a
// column named like amount_lag3. Useful before correlating a series with its
// own past.
func Lagged(f *frame.Frame, col string, n int) (*frame.Frame, error) {
	s, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	name := col + "_lag" + strconv.Itoa(n)
	return f.WithColumn(name, s.Shift(n).Rename(name))
}
