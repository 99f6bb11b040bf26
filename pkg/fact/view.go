package fact

import "time"

// ContactView is the never-persisted read model produced by the store on
// demand. It is always relative to a specific AsOf instant.
type ContactView struct {
	Subject     Subject
	AsOf        time.Time
	ActiveFacts []Fact
}
