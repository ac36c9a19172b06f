package geo

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// RegionClass marks an element as a selectable province.
	RegionClass = "provinceSec"
	// RegionIDPrefix is followed by the region secid in element ids.
	RegionIDPrefix = "province-"

	tileSize = 60
	tileGap  = 6
)

// RegionElementID is the element id a region is drawn under.
func RegionElementID(secid string) string {
	return RegionIDPrefix + secid
}

// SVG draws the country as a tile map: one square path per region, laid out
// row by row on a near-square grid, each labelled with its name.
func (c Country) SVG() (string, error) {
	n := len(c.Regions)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols == 0 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	width := cols*(tileSize+tileGap) + tileGap
	height := rows*(tileSize+tileGap) + tileGap

	svg := element("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"viewBox", fmt.Sprintf("0 0 %d %d", width, height),
		"role", "img",
		"aria-label", c.Name,
		"data-country", c.Code,
	)
	for i, r := range c.Regions {
		x := tileGap + (i%cols)*(tileSize+tileGap)
		y := tileGap + (i/cols)*(tileSize+tileGap)

		path := element("path",
			"class", RegionClass,
			"id", RegionElementID(r.SecID),
			"d", fmt.Sprintf("M%d %dh%dv%dh-%dZ", x, y, tileSize, tileSize, tileSize),
			"data-name", r.Name,
		)
		title := element("title")
		title.AppendChild(&html.Node{Type: html.TextNode, Data: r.Name})
		path.AppendChild(title)
		svg.AppendChild(path)

		label := element("text",
			"x", strconv.Itoa(x+tileSize/2),
			"y", strconv.Itoa(y+tileSize/2),
			"text-anchor", "middle",
			"pointer-events", "none",
		)
		label.AppendChild(&html.Node{Type: html.TextNode, Data: r.SecID})
		svg.AppendChild(label)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, svg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func element(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: atom.Lookup([]byte(tag)), Data: tag, Namespace: "svg"}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}
