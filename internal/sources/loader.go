package sources

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
)

// Load reads and validates the source catalog. With an empty path it tries
// the default locations relative to the working directory.
func Load(path string) (*Catalog, error) {
	paths := []string{path}
	if path == "" {
		paths = []string{"sources.yml", "./config/sources.yml"}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source catalog: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals and validates catalog bytes, then fills per-kind defaults.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("invalid source catalog: %w", err)
	}
	v := validator.New()
	if err := v.Struct(cat); err != nil {
		return nil, fmt.Errorf("invalid source catalog: %w", err)
	}
	for i := range cat.Datasets {
		applyDefaults(&cat.Datasets[i])
	}
	return &cat, nil
}

// applyDefaults fills alias lists and timestamp formats left out of the
// catalog. Bus datasets inherit the full known-vintage alias table; the CRZ
// and taxi normalizers resolve their fixed headers themselves.
func applyDefaults(d *Dataset) {
	if d.Kind == KindBus {
		if len(d.Aliases.Timestamp) == 0 {
			d.Aliases.Timestamp = ingest.DefaultBusAliases.Timestamp
		}
		if len(d.Aliases.Route) == 0 {
			d.Aliases.Route = ingest.DefaultBusAliases.Route
		}
		if len(d.Aliases.Count) == 0 {
			d.Aliases.Count = ingest.DefaultBusAliases.Count
		}
	}
	if len(d.TimestampFormats) == 0 {
		d.TimestampFormats = ingest.DefaultTimestampFormats
	}
}
