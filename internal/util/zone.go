package util

import (
	"fmt"
	"time"
)

// DefaultReferenceZone is the civil timezone all stored timestamps are
// normalized into when no override is configured.
const DefaultReferenceZone = "America/New_York"

// LoadReferenceZone resolves the named timezone, defaulting to
// DefaultReferenceZone when name is empty. The zone carries its historical
// DST transition rules.
func LoadReferenceZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultReferenceZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w\nValid examples: UTC, America/New_York, Europe/London, Asia/Shanghai", name, err)
	}
	return loc, nil
}
