package estimator

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// FillDefinition selects which points bound the fill region whose hull is measured.
type FillDefinition string

const (
	// BottomAndSurface measures the hull of the bottom disk and the fill surface disk.
	BottomAndSurface FillDefinition = "bottom_and_surface"
	// WallClipped also includes the wall points at or below the fill surface.
	WallClipped FillDefinition = "wall_clipped"
)

// DefaultFillDefinition is used when none is configured.
const DefaultFillDefinition = BottomAndSurface

// FillDefinitions lists every supported definition.
var FillDefinitions = []FillDefinition{BottomAndSurface, WallClipped}

// ParseFillDefinition returns the definition named by s. An empty string selects the default.
func ParseFillDefinition(s string) (FillDefinition, error) {
	if s == "" {
		return DefaultFillDefinition, nil
	}
	def := FillDefinition(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(FillDefinitions, def) {
		names := lo.Map(FillDefinitions, func(d FillDefinition, _ int) string { return string(d) })
		return "", errors.Errorf("unknown fill definition %q, expected one of: %s", s, strings.Join(names, ", "))
	}
	return def, nil
}
