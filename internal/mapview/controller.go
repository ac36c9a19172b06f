// Package mapview drives the province map widget: it wires click handling
// onto the region elements of a country SVG, keeps exactly one region marked
// active and reports selections to the caller.
package mapview

import (
	"gazette/internal/dom"
	"gazette/internal/geo"

	"golang.org/x/net/html"
)

const (
	RegionClass = geo.RegionClass
	ActiveClass = "activeProvince"
)

// Controller is scoped to one mounted widget. It holds no selection state of
// its own: the active region is whichever element carries ActiveClass.
type Controller struct {
	onSelect func(id string)

	doc      *dom.Document
	root     *html.Node
	regions  []*html.Node
	listener *dom.Listener
}

func New(onSelect func(id string)) *Controller {
	return &Controller{onSelect: onSelect}
}

// DecodeRegionID strips the "province-" prefix from an element id. The prefix
// is not checked; ids shorter than the prefix decode to "".
func DecodeRegionID(elementID string) string {
	n := len(geo.RegionIDPrefix)
	if len(elementID) < n {
		return ""
	}
	return elementID[n:]
}

// Mount discovers every region below root and attaches one click listener
// to each. A nil root mounts nothing. Mounting an already mounted controller
// releases the previous listeners first. It returns the number of regions.
func (c *Controller) Mount(doc *dom.Document, root *html.Node) int {
	c.Unmount()
	if doc == nil || root == nil {
		return 0
	}
	c.doc = doc
	c.root = root
	c.regions = dom.QueryClass(root, RegionClass)
	c.listener = dom.NewListener(c.handleClick)
	for _, r := range c.regions {
		doc.AddEventListener(r, dom.Click, c.listener)
	}
	return len(c.regions)
}

// Unmount detaches every listener Mount attached, using the same listener
// reference, so later clicks reach nothing.
func (c *Controller) Unmount() {
	if c.doc != nil && c.listener != nil {
		for _, r := range c.regions {
			c.doc.RemoveEventListener(r, dom.Click, c.listener)
		}
	}
	c.doc = nil
	c.root = nil
	c.regions = nil
	c.listener = nil
}

// SetCallback swaps the selection callback. Like a dependency change on the
// widget it tears the listeners down and mounts again on the same root.
func (c *Controller) SetCallback(onSelect func(id string)) {
	doc, root := c.doc, c.root
	c.Unmount()
	c.onSelect = onSelect
	if doc != nil {
		c.Mount(doc, root)
	}
}

func (c *Controller) Mounted() bool {
	return c.listener != nil
}

func (c *Controller) handleClick(e *dom.Event) {
	e.StopPropagation()

	clicked := e.CurrentTarget
	id, _ := dom.Attr(clicked, "id")
	if c.onSelect != nil {
		c.onSelect(DecodeRegionID(id))
	}

	for _, r := range c.regions {
		dom.RemoveClass(r, ActiveClass)
	}
	dom.AddClass(clicked, ActiveClass)
}

// Select replays a click on the region drawn for secid. It reports false
// when the controller is not mounted or no such region exists.
func (c *Controller) Select(secid string) bool {
	if !c.Mounted() {
		return false
	}
	want := geo.RegionElementID(secid)
	for _, r := range c.regions {
		if id, _ := dom.Attr(r, "id"); id == want {
			c.doc.Click(r)
			return true
		}
	}
	return false
}

// Active returns the decoded ids of regions carrying ActiveClass.
func (c *Controller) Active() []string {
	var out []string
	for _, r := range c.regions {
		if dom.HasClass(r, ActiveClass) {
			id, _ := dom.Attr(r, "id")
			out = append(out, DecodeRegionID(id))
		}
	}
	return out
}
