// Package catalog contains the site's fixed catalogs: the page templates a
// publisher can pick from and the colour themes a reader can switch to.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type Template struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Link        string `yaml:"link"`
}

var (
	templatesOnce sync.Once
	templates     []Template
)

// Templates returns a copy of the template catalog in display order.
func Templates() []Template {
	templatesOnce.Do(func() {
		if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
			panic(fmt.Sprintf("catalog: embedded templates.yaml: %v", err))
		}
	})
	return append([]Template(nil), templates...)
}

func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
