package diagnostics

import (
	"image/color"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/fillvolume/pointcloud"
)

var roleColors = map[pointcloud.Role]color.Color{
	pointcloud.RoleWall:        color.RGBA{R: 120, G: 120, B: 120, A: 255},
	pointcloud.RoleBottom:      color.RGBA{R: 40, G: 90, B: 200, A: 255},
	pointcloud.RoleFillSurface: color.RGBA{R: 220, G: 120, B: 20, A: 255},
	pointcloud.RoleHull:        color.RGBA{R: 200, G: 30, B: 30, A: 255},
}

// PlotRadialHistogram saves a density histogram of the normalized squared radii of a disk
// cloud, with the uniform density it should follow. The format follows the extension of path.
func PlotRadialHistogram(cloud *pointcloud.PointCloud, radius float64, bins int, path string) error {
	u, err := NormalizedSquaredRadii(cloud, radius)
	if err != nil {
		return err
	}
	if len(u) == 0 {
		return errors.Errorf("%s cloud has no points to plot", cloud.Role())
	}

	p := plot.New()
	p.Title.Text = "Squared radial distance of " + string(cloud.Role()) + " points"
	p.X.Label.Text = "r² / R²"
	p.Y.Label.Text = "Density"

	hist, err := plotter.NewHist(plotter.Values(u), bins)
	if err != nil {
		return errors.Wrap(err, "building histogram")
	}
	hist.Normalize(1)
	p.Add(hist)

	expected, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 1}, {X: 1, Y: 1}})
	if err != nil {
		return err
	}
	expected.Color = color.RGBA{R: 200, A: 255}
	expected.Width = vg.Points(1)
	expected.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(expected)
	p.Legend.Add("uniform", expected)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving radial histogram")
	}
	return nil
}

// PlotSideProfile saves a scatter of every cloud projected on the x-z plane.
func PlotSideProfile(path string, clouds ...*pointcloud.PointCloud) error {
	p := plot.New()
	p.Title.Text = "Side profile"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"

	for _, cloud := range clouds {
		xys := make(plotter.XYs, 0, cloud.Size())
		cloud.Iterate(0, 0, func(pt r3.Vector) bool {
			xys = append(xys, plotter.XY{X: pt.X, Y: pt.Z})
			return true
		})
		if len(xys) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrapf(err, "plotting %s", cloud.Role())
		}
		if c, ok := roleColors[cloud.Role()]; ok {
			scatter.GlyphStyle.Color = c
		}
		scatter.GlyphStyle.Radius = vg.Points(1)
		p.Add(scatter)
		p.Legend.Add(string(cloud.Role()), scatter)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving side profile")
	}
	return nil
}
