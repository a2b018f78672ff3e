package catalog

import (
	"errors"
	"fmt"
	"regexp"
)

var icaoPattern = regexp.MustCompile(`^[A-Z]{4}$`)

// Validate runs every integrity check and joins the failures under
// ErrInvalidCatalog.
func Validate(c *Catalog) error {
	var errs []error
	errs = append(errs, CheckRecords(c)...)
	errs = append(errs, CheckSources(c)...)
	errs = append(errs, CheckRegions(c)...)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
}

// CheckRecords verifies record identity, ICAO codes, effective windows and
// enumerations.
func CheckRecords(c *Catalog) []error {
	var errs []error
	seen := make(map[string]bool, len(c.Records))
	for i, n := range c.Records {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("notam %d: missing id", i))
		} else if seen[n.ID] {
			errs = append(errs, fmt.Errorf("notam %s: duplicate id", n.ID))
		}
		seen[n.ID] = true

		if !icaoPattern.MatchString(n.ICAO) {
			errs = append(errs, fmt.Errorf("notam %s: icao %q is not four upper-case letters", n.ID, n.ICAO))
		}
		if n.EffectiveFrom.After(n.EffectiveUntil) {
			errs = append(errs, fmt.Errorf("notam %s: effective_from is after effective_until", n.ID))
		}
		if !n.Category.Valid() {
			errs = append(errs, fmt.Errorf("notam %s: unknown category %q", n.ID, n.Category))
		}
		if !n.RiskLevel.Valid() {
			errs = append(errs, fmt.Errorf("notam %s: unknown risk_level %q", n.ID, n.RiskLevel))
		}
		if !n.Priority.Valid() {
			errs = append(errs, fmt.Errorf("notam %s: unknown priority %q", n.ID, n.Priority))
		}
	}
	return errs
}

// CheckSources verifies the registry and that every record names a
// registered source.
func CheckSources(c *Catalog) []error {
	var errs []error
	keys := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		switch {
		case s.Key == "":
			errs = append(errs, fmt.Errorf("source %d: missing key", i))
		case keys[s.Key]:
			errs = append(errs, fmt.Errorf("source %s: duplicate key", s.Key))
		}
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("source %s: missing name", s.Key))
		}
		keys[s.Key] = true
	}
	for _, n := range c.Records {
		if !keys[n.Source] {
			errs = append(errs, fmt.Errorf("notam %s: source %q is not registered", n.ID, n.Source))
		}
	}
	return errs
}

// CheckRegions verifies region names and codes.
func CheckRegions(c *Catalog) []error {
	var errs []error
	names := make(map[string]bool, len(c.Regions))
	for i, r := range c.Regions {
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Errorf("region %d: missing name", i))
		case names[r.Name]:
			errs = append(errs, fmt.Errorf("region %s: duplicate name", r.Name))
		}
		names[r.Name] = true

		if len(r.Codes) == 0 {
			errs = append(errs, fmt.Errorf("region %s: no codes", r.Name))
		}
		for _, code := range r.Codes {
			if !icaoPattern.MatchString(code) {
				errs = append(errs, fmt.Errorf("region %s: code %q is not four upper-case letters", r.Name, code))
			}
		}
	}
	return errs
}
