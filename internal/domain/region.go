package domain

import "strings"

// regionPresetSize is how many codes a region preset contributes to the
// ICAO input.
const regionPresetSize = 6

// Region is a named list of ICAO codes used as a filter preset.
type Region struct {
	Name  string   `json:"name"`
	Codes []string `json:"codes"`
}

// PresetCodes returns the codes a region selection places in the filter,
// at most six.
func (r Region) PresetCodes() []string {
	if len(r.Codes) <= regionPresetSize {
		return append([]string(nil), r.Codes...)
	}
	return append([]string(nil), r.Codes[:regionPresetSize]...)
}

// PresetInput renders PresetCodes as comma-separated user input.
func (r Region) PresetInput() string {
	return strings.Join(r.PresetCodes(), ", ")
}

// FindRegion looks a region up by name, case-insensitively.
func FindRegion(regions []Region, name string) (Region, bool) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return r, true
		}
	}
	return Region{}, false
}
