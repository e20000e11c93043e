package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/fillvolume/units"
	"go.viam.com/fillvolume/utils"
)

type volumeRow struct {
	name   string
	liters float64
}

// Table renders the geometry and volumes of a decoded record in the given volume unit. The
// record's volumes are already rounded, so small units show that rounding.
func (md Metadata) Table(unit string) (string, error) {
	return volumeTable(md, []volumeRow{
		{"Analytic capacity", md.AnalyticCapacityLiters},
		{"Analytic fill", md.AnalyticFillLiters},
		{"Convex hull full bucket", md.ConvexHullFullLiters},
		{"Convex hull fill (" + md.FillDefinition + ")", md.ConvexHullFillLiters},
	}, utils.RelativeError(md.ConvexHullFillLiters, md.AnalyticFillLiters), unit)
}

// Table renders the report summary in the given volume unit from unrounded volumes.
func (r *VolumeReport) Table(unit string) (string, error) {
	return volumeTable(r.Metadata(), []volumeRow{
		{"Analytic capacity", r.analytic.CapacityLiters},
		{"Analytic fill", r.analytic.FillLiters},
		{"Convex hull full bucket", r.hull.FullLiters},
		{"Convex hull fill (" + r.fillDefinition + ")", r.hull.FillLiters},
	}, r.FillRelativeError(), unit)
}

func volumeTable(md Metadata, rows []volumeRow, relErr float64, unit string) (string, error) {
	if !units.IsValid(unit) {
		return "", errors.Errorf("invalid volume unit %q, expected one of: %s", unit, units.GetValidUnitsString())
	}
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("r=%g m  h=%g m  fill=%g  seed=%d", md.BucketRadius, md.BucketHeight, md.FillRatio, md.Seed))
	t.AppendHeader(table.Row{"Volume", unit})
	t.AppendRows(lo.Map(rows, func(row volumeRow, _ int) table.Row {
		return table.Row{row.name, formatVolume(units.ConvertVolume(units.LitersToCubicMeters(row.liters), unit))}
	}))
	t.AppendFooter(table.Row{"Fill relative error", fmt.Sprintf("%.3f%%", 100*relErr)})
	return t.Render(), nil
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
