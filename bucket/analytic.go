package bucket

import (
	"math"

	"go.viam.com/fillvolume/units"
)

// CapacityM3 returns the volume of the whole bucket, pi*r^2*h.
func CapacityM3(g Geometry) float64 {
	return math.Pi * g.radius * g.radius * g.height
}

// FillM3 returns the volume below the fill surface, pi*r^2*(fill_ratio*h).
func FillM3(g Geometry) float64 {
	return math.Pi * g.radius * g.radius * g.FillHeight()
}

// CapacityLiters returns CapacityM3 in liters.
func CapacityLiters(g Geometry) float64 {
	return units.CubicMetersToLiters(CapacityM3(g))
}

// FillLiters returns FillM3 in liters.
func FillLiters(g Geometry) float64 {
	return units.CubicMetersToLiters(FillM3(g))
}

// Reference holds the closed-form volumes of a geometry.
type Reference struct {
	CapacityM3     float64
	FillM3         float64
	CapacityLiters float64
	FillLiters     float64
}

// Analytic computes every closed-form volume of g.
func Analytic(g Geometry) Reference {
	return Reference{
		CapacityM3:     CapacityM3(g),
		FillM3:         FillM3(g),
		CapacityLiters: CapacityLiters(g),
		FillLiters:     FillLiters(g),
	}
}
