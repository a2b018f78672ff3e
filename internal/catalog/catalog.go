// Package catalog loads the NOTAM record set, source registry and world
// region presets from YAML. The bundled sample catalog is embedded; an
// operator may point the service at a replacement file.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/notam-feed-service/internal/domain"
)

//go:embed sample.yaml
var sampleYAML []byte

// ErrInvalidCatalog wraps every decoding or integrity failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the decoded content of a catalog file.
type Catalog struct {
	Records []domain.Notam
	Sources []domain.SourceDescriptor
	Regions []domain.Region
}

// Store builds the immutable record store.
func (c *Catalog) Store() *domain.Store {
	return domain.NewStore(c.Records)
}

// Registry builds the source registry.
func (c *Catalog) Registry() *domain.SourceRegistry {
	return domain.NewSourceRegistry(c.Sources)
}

type fileCatalog struct {
	Sources []fileSource `yaml:"sources"`
	Regions []fileRegion `yaml:"regions"`
	Notams  []fileNotam  `yaml:"notams"`
}

type fileSource struct {
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Coverage     string `yaml:"coverage"`
	AuthRequired bool   `yaml:"auth_required"`
}

type fileRegion struct {
	Name  string   `yaml:"name"`
	Codes []string `yaml:"codes"`
}

// fileNotam keeps timestamps as strings so a bad value is reported with
// the record ID instead of a bare yaml position.
type fileNotam struct {
	ID               string   `yaml:"id"`
	ICAO             string   `yaml:"icao"`
	AirportName      string   `yaml:"airport_name"`
	Country          string   `yaml:"country"`
	EffectiveFrom    string   `yaml:"effective_from"`
	EffectiveUntil   string   `yaml:"effective_until"`
	Category         string   `yaml:"category"`
	Priority         string   `yaml:"priority"`
	RawText          string   `yaml:"raw_text"`
	Interpreted      string   `yaml:"interpreted"`
	RiskLevel        string   `yaml:"risk_level"`
	AffectedElements []string `yaml:"affected_elements"`
	Source           string   `yaml:"source"`
}

// Sample returns a copy of the embedded sample catalog YAML.
func Sample() []byte {
	return bytes.Clone(sampleYAML)
}

// Load returns the embedded sample catalog.
func Load() (*Catalog, error) {
	return Parse(sampleYAML)
}

// LoadFile reads and validates a catalog file. An empty path selects the
// embedded sample.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Load()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	c, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Decode converts catalog YAML into domain values without integrity checks.
// Unknown keys and malformed timestamps are rejected.
func Decode(data []byte) (*Catalog, error) {
	var f fileCatalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		Records: make([]domain.Notam, 0, len(f.Notams)),
		Sources: make([]domain.SourceDescriptor, 0, len(f.Sources)),
		Regions: make([]domain.Region, 0, len(f.Regions)),
	}
	for _, s := range f.Sources {
		c.Sources = append(c.Sources, domain.SourceDescriptor(s))
	}
	for _, r := range f.Regions {
		c.Regions = append(c.Regions, domain.Region{Name: r.Name, Codes: r.Codes})
	}
	for i, n := range f.Notams {
		rec, err := n.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: notam %d (%s): %w", ErrInvalidCatalog, i, n.ID, err)
		}
		c.Records = append(c.Records, rec)
	}
	return c, nil
}

func (n fileNotam) toDomain() (domain.Notam, error) {
	from, err := time.Parse(time.RFC3339, n.EffectiveFrom)
	if err != nil {
		return domain.Notam{}, fmt.Errorf("parse effective_from: %w", err)
	}
	until, err := time.Parse(time.RFC3339, n.EffectiveUntil)
	if err != nil {
		return domain.Notam{}, fmt.Errorf("parse effective_until: %w", err)
	}
	return domain.Notam{
		ID:               n.ID,
		ICAO:             n.ICAO,
		AirportName:      n.AirportName,
		Country:          n.Country,
		EffectiveFrom:    from.UTC(),
		EffectiveUntil:   until.UTC(),
		Category:         domain.Category(n.Category),
		Priority:         domain.Priority(n.Priority),
		RawText:          n.RawText,
		Interpreted:      n.Interpreted,
		RiskLevel:        domain.RiskLevel(n.RiskLevel),
		AffectedElements: n.AffectedElements,
		Source:           n.Source,
	}, nil
}
