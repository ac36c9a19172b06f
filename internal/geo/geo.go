// Package geo holds the static province tables the map pages are drawn from.
// The tables are decoded once from embedded YAML and handed out as copies;
// nothing in the process can change them.
package geo

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed maps.yaml
var mapsYAML []byte

type Region struct {
	SecID string `yaml:"secid"`
	Name  string `yaml:"name"`
}

type Country struct {
	ID      int      `yaml:"id"`
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Regions []Region `yaml:"regions"`
}

type table struct {
	Countries []Country `yaml:"countries"`
}

var (
	loadOnce  sync.Once
	countries []Country
	byCode    map[string]int
	byID      map[int]int
)

func load() {
	loadOnce.Do(func() {
		var t table
		if err := yaml.Unmarshal(mapsYAML, &t); err != nil {
			panic(fmt.Sprintf("geo: embedded maps.yaml: %v", err))
		}
		countries = t.Countries
		byCode = make(map[string]int, len(countries))
		byID = make(map[int]int, len(countries))
		for i, c := range countries {
			byCode[c.Code] = i
			byID[c.ID] = i
		}
	})
}

func (c Country) clone() Country {
	c.Regions = append([]Region(nil), c.Regions...)
	return c
}

// Countries returns every country table in declaration order.
func Countries() []Country {
	load()
	out := make([]Country, len(countries))
	for i, c := range countries {
		out[i] = c.clone()
	}
	return out
}

// Lookup finds a country by ISO code, ignoring case.
func Lookup(code string) (Country, bool) {
	load()
	i, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Country{}, false
	}
	return countries[i].clone(), true
}

func ByID(id int) (Country, bool) {
	load()
	i, ok := byID[id]
	if !ok {
		return Country{}, false
	}
	return countries[i].clone(), true
}

// Regions returns the province table for code, or nil for unknown countries.
func Regions(code string) []Region {
	c, ok := Lookup(code)
	if !ok {
		return nil
	}
	return c.Regions
}

func (c Country) Region(secid string) (Region, bool) {
	for _, r := range c.Regions {
		if r.SecID == secid {
			return r, true
		}
	}
	return Region{}, false
}
