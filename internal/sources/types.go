package sources

import (
	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
)

// Dataset kinds. Each kind selects a normalizer and a destination summary.
const (
	KindBus  = "bus"
	KindCRZ  = "crz"
	KindTaxi = "taxi"
)

// Dataset describes one input file in the catalog. Location is a local path
// or an http(s) URL; the alias table and timestamp formats parameterize the
// normalizer so new data vintages are a catalog edit, not a code change.
type Dataset struct {
	Name             string         `yaml:"name" validate:"required"`
	Kind             string         `yaml:"kind" validate:"required,oneof=bus crz taxi"`
	Location         string         `yaml:"location" validate:"required"`
	Aliases          ingest.Aliases `yaml:"aliases"`
	TimestampFormats []string       `yaml:"timestampFormats"`
}

// Source returns the dataset's ingest source.
func (d Dataset) Source() ingest.Source {
	return ingest.Source{Name: d.Name, Location: d.Location}
}

// Catalog is the root of sources.yml.
type Catalog struct {
	Datasets []Dataset `yaml:"datasets" validate:"required,min=1,dive"`
}

// ByKind returns the catalog's datasets of one kind, in file order.
func (c *Catalog) ByKind(kind string) []Dataset {
	var out []Dataset
	for _, d := range c.Datasets {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
