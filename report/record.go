package report

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fillvolume/units"
	"go.viam.com/fillvolume/utils"
)

const (
	litersDecimals      = 3
	cubicMetersDecimals = 6
)

// Metadata is the scalar part of an exported record.
type Metadata struct {
	BucketRadius float64 `json:"bucket_radius" jsonschema:"description=inner radius in meters"`
	BucketHeight float64 `json:"bucket_height" jsonschema:"description=inner height in meters"`
	FillRatio    float64 `json:"fill_ratio" jsonschema:"description=filled fraction of the height"`

	NumPointsWall        int    `json:"num_points_wall"`
	NumPointsBottom      int    `json:"num_points_bottom"`
	NumPointsFillSurface int    `json:"num_points_fill_surface"`
	Seed                 uint64 `json:"seed"`
	FillDefinition       string `json:"fill_definition"`

	AnalyticCapacityM3     float64 `json:"analytic_capacity_m3"`
	AnalyticCapacityLiters float64 `json:"analytic_capacity_liters"`
	AnalyticFillM3         float64 `json:"analytic_fill_m3"`
	AnalyticFillLiters     float64 `json:"analytic_fill_liters"`
	ConvexHullFullM3       float64 `json:"convex_hull_full_m3"`
	ConvexHullFullLiters   float64 `json:"convex_hull_full_liters"`
	ConvexHullFillM3       float64 `json:"convex_hull_fill_m3"`
	ConvexHullFillLiters   float64 `json:"convex_hull_fill_liters"`
}

// Record is the exported form of a VolumeReport. Coordinates are meters, [x, y, z].
type Record struct {
	Metadata    Metadata     `json:"metadata"`
	EmptyBucket [][3]float64 `json:"empty_bucket"`
	FillSurface [][3]float64 `json:"fill_surface"`
	FullBucket  [][3]float64 `json:"full_bucket"`
}

// Metadata returns the scalar part of the export form. Liters are rounded to 3 decimals and
// cubic meters to 6.
func (r *VolumeReport) Metadata() Metadata {
	liters := func(l float64) float64 { return utils.RoundTo(l, litersDecimals) }
	m3 := func(l float64) float64 { return utils.RoundTo(units.LitersToCubicMeters(l), cubicMetersDecimals) }
	return Metadata{
		BucketRadius:           r.geometry.Radius(),
		BucketHeight:           r.geometry.Height(),
		FillRatio:              r.geometry.FillRatio(),
		NumPointsWall:          r.counts.Wall,
		NumPointsBottom:        r.counts.Bottom,
		NumPointsFillSurface:   r.counts.FillSurface,
		Seed:                   r.seed,
		FillDefinition:         r.fillDefinition,
		AnalyticCapacityM3:     m3(r.analytic.CapacityLiters),
		AnalyticCapacityLiters: liters(r.analytic.CapacityLiters),
		AnalyticFillM3:         m3(r.analytic.FillLiters),
		AnalyticFillLiters:     liters(r.analytic.FillLiters),
		ConvexHullFullM3:       m3(r.hull.FullLiters),
		ConvexHullFullLiters:   liters(r.hull.FullLiters),
		ConvexHullFillM3:       m3(r.hull.FillLiters),
		ConvexHullFillLiters:   liters(r.hull.FillLiters),
	}
}

// Record returns the export form of the report. Coordinates keep full precision.
func (r *VolumeReport) Record() *Record {
	return &Record{
		Metadata:    r.Metadata(),
		EmptyBucket: r.emptyBucket.Triples(),
		FillSurface: r.fillSurface.Triples(),
		FullBucket:  r.fullBucket.Triples(),
	}
}

// Validate checks that a decoded record is self consistent.
func (rec *Record) Validate() error {
	if len(rec.EmptyBucket) == 0 || len(rec.FillSurface) == 0 {
		return errors.Wrap(ErrIncompleteReport, "record has no empty_bucket or fill_surface points")
	}
	if err := checkConcatenation(rec.EmptyBucket, rec.FillSurface, rec.FullBucket); err != nil {
		return err
	}
	md := rec.Metadata
	if md.NumPointsWall+md.NumPointsBottom != len(rec.EmptyBucket) || md.NumPointsFillSurface != len(rec.FillSurface) {
		return errors.Wrapf(ErrIncompleteReport, "point counts %d/%d/%d do not match the clouds",
			md.NumPointsWall, md.NumPointsBottom, md.NumPointsFillSurface)
	}
	return nil
}

// Encode writes the record of r as JSON indented by two spaces.
func (r *VolumeReport) Encode(w io.Writer) error {
	return r.Record().Encode(w)
}

// Encode writes rec as JSON indented by two spaces.
func (rec *Record) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// WriteFile exports the report to path, replacing any existing file.
func (r *VolumeReport) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	w := bufio.NewWriter(f)
	if err := r.Encode(w); err != nil {
		return err
	}
	return w.Flush()
}

// Decode reads a record.
func Decode(r io.Reader) (*Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "decoding volume report")
	}
	return &rec, nil
}

// ReadFile reads and validates an exported record.
func ReadFile(path string) (rec *Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	rec, err = Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if err := rec.Validate(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return rec, nil
}

// Schema returns the JSON schema of the exported record.
func Schema() *jsonschema.Schema {
	return jsonschema.Reflect(&Record{})
}

// SchemaJSON returns the indented JSON schema of the exported record.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
