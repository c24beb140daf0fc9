package generator

import "time"

// SampleOwnerID is the placeholder owner of generated listings.
const SampleOwnerID = "sample_owner_id"

// Config drives the sample listing generator.
type Config struct {
	Count   int
	Seed    int64
	OwnerID string
	// Force lets Seed replace a properties collection that already has records.
	Force bool
	Now   func() time.Time
}

// DefaultConfig returns the settings used by datagen when no flags are given.
func DefaultConfig() Config {
	return Config{
		Count:   50,
		Seed:    42,
		OwnerID: SampleOwnerID,
	}
}
