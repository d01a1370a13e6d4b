// Package grades maps percentage marks onto UK degree classifications,
// Singapore letter grades and GPA, and shows how a uniform adjustment
// moves every boundary.
package grades

import (
	"fmt"
	"math"
)

// Grade is one boundary of the scale. Empty classes mean the boundary
// has no named class of its own.
type Grade struct {
	Mark      int
	UG        string
	PGT       string
	Singapore string
	GPA       string
}

// Scale lists the boundaries from 100 down to 0.
var Scale = []Grade{
	{100, "Exceptional", "Exceptional", "A+", "5.0"},
	{95, "", "", "A+", "5.0"},
	{90, "Outstanding", "Outstanding", "A+", "5.0"},
	{85, "Very high 1st", "Very high distinction", "A+", "4.5"},
	{78, "High 1st", "High distinction", "A", "4.5"},
	{75, "Mid 1st", "Mid distinction", "A", "4.5"},
	{72, "Low 1st", "Low distinction", "A", "4.0"},
	{68, "High 2.1", "High merit", "A-", "4.0"},
	{65, "Mid 2.1", "Mid merit", "A-", "4.0"},
	{62, "Low 2.1", "Low merit", "B+", "3.5"},
	{58, "High 2.2", "High pass", "B+", "3.5"},
	{55, "Mid 2.2", "Mid pass", "B", "3.0"},
	{52, "Low 2.2", "Low pass", "B", "3.0"},
	{48, "High 3rd", "Marginal fail", "B-", "3.0"},
	{45, "Mid 3rd", "", "B-", "2.5"},
	{42, "Low 3rd", "", "C+", "2.5"},
	{38, "Marginal fail", "Clear fail", "C", "2.0"},
	{35, "", "", "C", "2.0"},
	{32, "", "", "C-", "2.0"},
	{28, "Clear fail", "", "D+", "1.5"},
	{25, "", "", "D", "1.5"},
	{22, "", "", "D", "1.5"},
	{18, "", "", "D-", "1.0"},
	{15, "", "", "F", "1.0"},
	{12, "", "", "F", "0.5"},
	{8, "Low fail", "Low fail", "F", "0.5"},
	{5, "", "", "F", "0.0"},
	{2, "", "", "F", "0.0"},
	{0, "Non-engagement", "Non-engagement", "F", "0.0"},
}

// Kind selects how an adjustment is applied.
type Kind int

const (
	// Percentage scales the mark by Value percent of itself.
	Percentage Kind = iota
	// Absolute adds Value marks.
	Absolute
)

func (k Kind) String() string {
	if k == Absolute {
		return "absolute"
	}
	return "percentage"
}

// Adjustment is a signed change applied to every mark. A negative Value
// lowers marks.
type Adjustment struct {
	Kind  Kind
	Value float64
}

// Adjust applies a to mark and clamps the result to [0, 100].
func Adjust(mark float64, a Adjustment) float64 {
	if a.Value == 0 {
		return mark
	}
	adjusted := mark + a.Value
	if a.Kind == Percentage {
		adjusted = mark + mark*a.Value/100
	}
	return math.Max(0, math.Min(100, adjusted))
}

// Snap returns the boundary nearest to mark. On a tie the higher
// boundary wins.
func Snap(mark float64) int {
	nearest := Scale[0].Mark
	best := math.Abs(mark - float64(nearest))
	for _, g := range Scale[1:] {
		if d := math.Abs(mark - float64(g.Mark)); d < best {
			best = d
			nearest = g.Mark
		}
	}
	return nearest
}

// Lookup returns the first boundary at or below mark.
func Lookup(mark float64) (Grade, bool) {
	for _, g := range Scale {
		if mark >= float64(g.Mark) {
			return g, true
		}
	}
	return Grade{}, false
}

// Cell is one table value before and after adjustment.
type Cell struct {
	Original string
	Adjusted string
	Changed  bool
}

func (c Cell) String() string {
	if c.Changed {
		return c.Original + " → " + c.Adjusted
	}
	return c.Original
}

// Row is one boundary of the adjusted table.
type Row struct {
	Mark      Cell
	UG        Cell
	PGT       Cell
	Singapore Cell
	GPA       Cell
}

// Table shows every boundary with its adjusted, snapped counterpart.
func Table(a Adjustment) []Row {
	rows := make([]Row, 0, len(Scale))
	for _, g := range Scale {
		adjMark := float64(g.Mark)
		adj := g
		if a.Value != 0 {
			adjMark = float64(Snap(Adjust(float64(g.Mark), a)))
			if found, ok := Lookup(adjMark); ok {
				adj = found
			}
		}
		active := a.Value != 0
		rows = append(rows, Row{
			Mark: Cell{
				Original: fmt.Sprint(g.Mark),
				Adjusted: fmt.Sprintf("%.0f", adjMark),
				Changed:  active && math.Abs(adjMark-float64(g.Mark)) > 0.01,
			},
			UG:        cell(dash(g.UG), dash(adj.UG), active),
			PGT:       cell(dash(g.PGT), dash(adj.PGT), active),
			Singapore: cell(g.Singapore, adj.Singapore, active),
			GPA:       cell(g.GPA, adj.GPA, active),
		})
	}
	return rows
}

func cell(orig, adj string, active bool) Cell {
	return Cell{Original: orig, Adjusted: adj, Changed: active && orig != adj}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Interval steps and the starting value of a Calculator.
const (
	IntervalStep    = 0.5
	DefaultInterval = 3.0
)

// Calculator is the interactive state of the grade widget.
type Calculator struct {
	Interval float64
	Kind     Kind
}

// NewCalculator returns a calculator at the default interval.
func NewCalculator() *Calculator {
	return &Calculator{Interval: DefaultInterval, Kind: Percentage}
}

// Increase raises the interval by one step.
func (c *Calculator) Increase() { c.Interval += IntervalStep }

// Decrease lowers the interval by one step.
func (c *Calculator) Decrease() { c.Interval -= IntervalStep }

// ToggleKind switches between percentage and absolute adjustment.
func (c *Calculator) ToggleKind() {
	if c.Kind == Percentage {
		c.Kind = Absolute
	} else {
		c.Kind = Percentage
	}
}

// Adjustment is the current interval as an adjustment.
func (c *Calculator) Adjustment() Adjustment {
	return Adjustment{Kind: c.Kind, Value: c.Interval}
}

// Label describes the interval, e.g. "+3.0 (percentage)".
func (c *Calculator) Label() string {
	return fmt.Sprintf("%+.1f (%s)", c.Interval, c.Kind)
}

// Rows is the table for the current interval.
func (c *Calculator) Rows() []Row {
	return Table(c.Adjustment())
}
