package scene

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/configurator/pkg/types"
)

// Swatch is a named receiver finish.
type Swatch struct {
	Name  string
	Color string
}

// Swatches are the receiver finishes offered to the user.
var Swatches = []Swatch{
	{Name: "black", Color: "#222"},
	{Name: "gray", Color: "#4b4b4b"},
	{Name: "fde", Color: "#7f7158"},
	{Name: "od-green", Color: "#4a5340"},
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ResolveColor accepts a swatch name or a hex color and returns the hex
// color.
func ResolveColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, sw := range Swatches {
		if strings.EqualFold(sw.Name, s) {
			return sw.Color, nil
		}
	}
	if hexColor.MatchString(s) {
		return strings.ToLower(s), nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrInvalidColor, s)
}
