package pipeline

import (
	"fmt"

	"chartlab/domain/chart"
	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// Dispatch maps one chart request onto the matching transform. It is
// stateless and pure: identical (record set, request) pairs produce identical
// series.
//
// An unrecognized plot kind is a caller bug and fails fast with
// CodeUnknownPlotKind. A missing field selection or a selection yielding zero
// valid values is a normal outcome and returns an empty series instead.
func Dispatch(rs *table.RecordSet, req chart.Request) (*chart.Series, error) {
	if !req.Kind.Valid() {
		return nil, errors.New(errors.CodeUnknownPlotKind, fmt.Sprintf("unknown plot kind %q", req.Kind))
	}

	wantFields := 1
	if req.Kind == chart.PlotScatter {
		wantFields = 2
	}
	for i := 0; i < wantFields; i++ {
		if i >= len(req.Fields) || req.Fields[i] == "" {
			return chart.EmptySeries(req.Kind), nil
		}
	}

	switch req.Kind {
	case chart.PlotHistogram:
		return Histogram(rs, req.Fields[0], req.GroupField), nil
	case chart.PlotBox:
		return BoxPlot(rs, req.Fields[0], req.GroupField), nil
	case chart.PlotDensity:
		return Density(rs, req.Fields[0], req.GroupField), nil
	case chart.PlotMeanCI:
		return MeanCIPlot(rs, req.Fields[0], req.GroupField), nil
	case chart.PlotBar:
		if req.GroupField != "" {
			return StackedFrequency(rs, req.Fields[0], req.GroupField, req.Params), nil
		}
		return Frequency(rs, req.Fields[0], req.Params), nil
	case chart.PlotScatter:
		return Scatter(rs, req.Fields[0], req.Fields[1], req.GroupField, req.Params), nil
	}
	// Unreachable: Valid() covers the full enum.
	return nil, errors.New(errors.CodeUnknownPlotKind, fmt.Sprintf("unknown plot kind %q", req.Kind))
}
