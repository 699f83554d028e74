package chart

// PlotKind is the closed set of chart kinds the pipeline can produce
type PlotKind string

const (
	PlotHistogram PlotKind = "histogram"
	PlotBox       PlotKind = "box"
	PlotDensity   PlotKind = "density"
	PlotMeanCI    PlotKind = "mean_ci"
	PlotBar       PlotKind = "bar"
	PlotScatter   PlotKind = "scatter"
)

// Valid reports whether k is one of the six supported plot kinds
func (k PlotKind) Valid() bool {
	switch k {
	case PlotHistogram, PlotBox, PlotDensity, PlotMeanCI, PlotBar, PlotScatter:
		return true
	}
	return false
}

// DateUnit controls date rounding before categorical counting
type DateUnit string

const (
	DateYear  DateUnit = "year"
	DateMonth DateUnit = "month"
	DateWeek  DateUnit = "week"
	DateDay   DateUnit = "day"
)

// Params carries the algorithm parameters selected in the UI layer
type Params struct {
	DateUnit DateUnit `json:"date_unit,omitempty"`
	Seed     int64    `json:"seed,omitempty"`
}

// Request identifies one chart computation: kind, field selection, optional
// grouping/stack field and parameters. Identical requests always yield
// identical series.
type Request struct {
	Kind       PlotKind `json:"kind"`
	Fields     []string `json:"fields"`
	GroupField string   `json:"group_field,omitempty"`
	Params     Params   `json:"params"`
}

// Bin is one histogram bin. Bins are half-open [Start, End) except the last,
// which includes the maximum value.
type Bin struct {
	Label       string         `json:"label"`
	Start       float64        `json:"start"`
	End         float64        `json:"end"`
	Count       int            `json:"count"`
	GroupCounts map[string]int `json:"group_counts,omitempty"`
}

// BoxStat is the five-number summary with IQR fences applied.
// Invariant: WhiskerLow <= Q1 <= Median <= Q3 <= WhiskerHigh.
type BoxStat struct {
	Group       string    `json:"group,omitempty"`
	Q1          float64   `json:"q1"`
	Median      float64   `json:"median"`
	Q3          float64   `json:"q3"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
	N           int       `json:"n"`
}

// DensityPoint is one (x, density) evaluation of a kernel density curve
type DensityPoint struct {
	X       float64 `json:"x"`
	Density float64 `json:"density"`
}

// DensityCurve is a fixed-length ordered density evaluation for one group
type DensityCurve struct {
	Group     string         `json:"group,omitempty"`
	Bandwidth float64        `json:"bandwidth"`
	Points    []DensityPoint `json:"points"`
	N         int            `json:"n"`
}

// MeanCI is a mean with its 95% t-interval. HasCI is false for n < 2, where
// the interval is undefined and reported as absent rather than thrown.
type MeanCI struct {
	Group   string  `json:"group,omitempty"`
	Mean    float64 `json:"mean"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
	N       int     `json:"n"`
	SD      float64 `json:"sd"`
	SE      float64 `json:"se"`
	HasCI   bool    `json:"has_ci"`
}

// FrequencyRow is one categorical count. Percentages are rounded to two
// decimals and sum to ~100 over a series.
type FrequencyRow struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StackedFrequency cross-tabulates category x stack value. Categories is the
// union over the whole dataset so every stack series aligns on the same axis;
// absent combinations carry an explicit zero.
type StackedFrequency struct {
	Categories []string       `json:"categories"`
	Stacks     []StackSeries  `json:"stacks"`
	Totals     map[string]int `json:"totals"`
}

// StackSeries is the per-category counts for one stack value
type StackSeries struct {
	Key    string `json:"key"`
	Counts []int  `json:"counts"`
}

// ScatterPoint is one (x, y) observation
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterSeries is the point set for one group
type ScatterSeries struct {
	Group  string         `json:"group,omitempty"`
	Points []ScatterPoint `json:"points"`
}

// AxisDomain is a padded [Min, Max] numeric axis range
type AxisDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Series is the uniform result object handed to the renderer. Exactly the
// fields matching the request's plot kind are populated; Empty marks the
// valid "no data" outcome.
type Series struct {
	Kind    PlotKind    `json:"kind"`
	Empty   bool        `json:"empty"`
	Groups  []string    `json:"groups,omitempty"`
	XDomain *AxisDomain `json:"x_domain,omitempty"`
	YDomain *AxisDomain `json:"y_domain,omitempty"`

	Bins        []Bin             `json:"bins,omitempty"`
	BoxStats    []BoxStat         `json:"box_stats,omitempty"`
	Curves      []DensityCurve    `json:"curves,omitempty"`
	MeanCIs     []MeanCI          `json:"mean_cis,omitempty"`
	Frequencies []FrequencyRow    `json:"frequencies,omitempty"`
	Stacked     *StackedFrequency `json:"stacked,omitempty"`
	Scatter     []ScatterSeries   `json:"scatter,omitempty"`
}

// EmptySeries is the explicit "no data" result for a plot kind
func EmptySeries(kind PlotKind) *Series {
	return &Series{Kind: kind, Empty: true}
}
