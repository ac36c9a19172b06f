package mapview

import (
	"fmt"

	"gazette/internal/dom"
	"gazette/internal/geo"
)

// Widget is one rendered map: the SVG markup with the active marker applied
// and the province the selection callback reported, if any.
type Widget struct {
	Country  geo.Country
	SVG      string
	Selected string
}

// Render draws country, replays a click on secid when it is non-empty and
// returns the resulting markup. The controller is unmounted before returning.
func Render(country geo.Country, secid string) (Widget, error) {
	raw, err := country.SVG()
	if err != nil {
		return Widget{}, fmt.Errorf("mapview: draw %s: %w", country.Code, err)
	}
	doc, err := dom.ParseString(raw)
	if err != nil {
		return Widget{}, fmt.Errorf("mapview: parse %s: %w", country.Code, err)
	}
	svg := doc.SVG()
	if svg == nil {
		return Widget{}, fmt.Errorf("mapview: %s has no svg root", country.Code)
	}

	w := Widget{Country: country}
	ctrl := New(func(id string) { w.Selected = id })
	ctrl.Mount(doc, svg)
	defer ctrl.Unmount()

	if secid != "" {
		ctrl.Select(secid)
	}

	out, err := dom.RenderString(svg)
	if err != nil {
		return Widget{}, fmt.Errorf("mapview: render %s: %w", country.Code, err)
	}
	w.SVG = out
	return w, nil
}
