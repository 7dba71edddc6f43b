// Package geoplot renders point maps of accident locations.
package geoplot

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/fars-analysis/internal/dataset"
	"github.com/couchcryptid/fars-analysis/internal/domain"
	"github.com/couchcryptid/fars-analysis/internal/observability"
)

// InvalidStateError means the requested state code does not appear among the
// distinct STATE values of the loaded year.
type InvalidStateError struct {
	State int
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("state %d not present in the loaded year's data", e.State)
}

// TableLoader loads one yearly accident table by filename.
type TableLoader interface {
	Load(filename string) (*domain.AccidentTable, error)
}

// Mapper renders a scatter of accident locations for one state and year.
type Mapper struct {
	loader  TableLoader
	logger  *slog.Logger
	metrics *observability.Metrics

	// Output dimensions in typographic points.
	widthPt, heightPt float64
}

// NewMapper creates a Mapper rendering at the given size.
func NewMapper(loader TableLoader, logger *slog.Logger, metrics *observability.Metrics, widthPt, heightPt float64) *Mapper {
	return &Mapper{
		loader:   loader,
		logger:   logger,
		metrics:  metrics,
		widthPt:  widthPt,
		heightPt: heightPt,
	}
}

// MapState loads the year's table, filters to the given state, and writes a
// PNG point map to w. Load errors propagate unwrapped, so callers can match
// dataset.ErrNotFound and dataset.ErrParse directly. A state code absent
// from the year's data yields an InvalidStateError. A state that matches
// zero rows is not an error: it logs an informational message and writes
// nothing.
func (m *Mapper) MapState(stateNum, year int, w io.Writer) error {
	start := time.Now()

	table, err := m.loader.Load(dataset.FilenameForYear(year))
	if err != nil {
		return err
	}

	if !table.States()[stateNum] {
		return &InvalidStateError{State: stateNum}
	}

	points, matched := statePoints(table, stateNum)
	if matched == 0 {
		m.logger.Info("no accidents to plot", "state", stateNum, "year", year)
		return nil
	}

	p := newStatePlot(stateNum, year)
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(1)
	p.Add(scatter)

	wt, err := p.WriterTo(vg.Points(m.widthPt), vg.Points(m.heightPt), "png")
	if err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write map: %w", err)
	}

	m.metrics.MapsRendered.Inc()
	m.metrics.MapRenderDuration.Observe(time.Since(start).Seconds())
	m.logger.Info("state map rendered",
		"state", stateNum,
		"year", year,
		"accidents", matched,
		"plotted", len(points),
	)
	return nil
}

// statePoints collects the plottable (longitude, latitude) points for one
// state and the total number of matching rows. Rows whose coordinates carry
// the missing-data sentinels still count as matches but contribute no point,
// so they never distort the bounding box.
func statePoints(table *domain.AccidentTable, stateNum int) (plotter.XYs, int) {
	var points plotter.XYs
	matched := 0
	for _, r := range table.Records {
		if r.State != stateNum {
			continue
		}
		matched++
		if !r.HasLatitude() || !r.HasLongitude() {
			continue
		}
		points = append(points, plotter.XY{X: r.Longitud, Y: r.Latitude})
	}
	return points, matched
}

// newStatePlot builds the base plot the scatter is drawn over: a gridded
// frame whose axes autoscale to the bounding box of the plotted points.
func newStatePlot(stateNum, year int) *plot.Plot {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Fatal accidents, state %d, %d", stateNum, year)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())
	return p
}
