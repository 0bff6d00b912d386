package indicator

import (
	"math"
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// Frame is a series extended with named indicator columns aligned one-to-one with its bars.
type Frame struct {
	series  types.Series
	columns map[string][]float64
	order   []string
}

func newFrame(series types.Series) *Frame {
	return &Frame{
		series:  series,
		columns: make(map[string][]float64),
		order:   make([]string, 0),
	}
}

func (f *Frame) setColumn(name string, values []float64) {
	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}

	f.columns[name] = values
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	return f.series.Len()
}

// Symbol returns the instrument of the underlying series.
func (f *Frame) Symbol() string {
	return f.series.Symbol
}

// Series returns the underlying series.
func (f *Frame) Series() types.Series {
	return f.series
}

// Columns returns the column names in the order they were computed.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.order))
	copy(names, f.order)

	return names
}

// Bar returns the bar at index i.
func (f *Frame) Bar(i int) types.MarketData {
	return f.series.Bars[i]
}

// Value returns the column value at index i, or None when the column is unknown,
// the index is out of range or the indicator is still warming up.
func (f *Frame) Value(column string, i int) optional.Option[float64] {
	values, ok := f.columns[column]
	if !ok || i < 0 || i >= len(values) {
		return optional.None[float64]()
	}

	if math.IsNaN(values[i]) {
		return optional.None[float64]()
	}

	return optional.Some(values[i])
}

// Upto returns a view limited to bars [0, i].
func (f *Frame) Upto(i int) View {
	return View{frame: f, end: i}
}

// View is a read-only window of a Frame ending at the current bar. Lookups past the
// current bar return None, so consumers cannot see the future.
type View struct {
	frame *Frame
	end   int
}

// Index returns the index of the current bar.
func (v View) Index() int {
	return v.end
}

// Len returns the number of visible bars.
func (v View) Len() int {
	return v.end + 1
}

// Symbol returns the instrument of the view.
func (v View) Symbol() string {
	return v.frame.Symbol()
}

// Current returns the current bar.
func (v View) Current() types.MarketData {
	return v.frame.Bar(v.end)
}

// BarAt returns the bar at index i if it is visible.
func (v View) BarAt(i int) optional.Option[types.MarketData] {
	if i < 0 || i > v.end {
		return optional.None[types.MarketData]()
	}

	return optional.Some(v.frame.Bar(i))
}

// Value returns the column value at the current bar.
func (v View) Value(column string) optional.Option[float64] {
	return v.frame.Value(column, v.end)
}

// ValueAt returns the column value at index i if it is visible.
func (v View) ValueAt(column string, i int) optional.Option[float64] {
	if i > v.end {
		return optional.None[float64]()
	}

	return v.frame.Value(column, i)
}

// NewFrame builds a frame from precomputed columns. Every column must have one entry per
// bar, with NaN marking values that are not yet available.
func NewFrame(series types.Series, columns map[string][]float64) (*Frame, error) {
	frame := newFrame(series)

	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if len(columns[name]) != series.Len() {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"column %s has %d values, expected %d", name, len(columns[name]), series.Len())
		}

		frame.setColumn(name, columns[name])
	}

	return frame, nil
}
