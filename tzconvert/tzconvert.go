// Package tzconvert converts captured instants between the system clock's
// zone, a destination display zone, and a final storage zone.
package tzconvert

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeZone is returned when a zone identifier is not present in the
// system's time-zone database.
var ErrInvalidTimeZone = errors.New("invalid time zone identifier")

// DefaultDestinationZone is the organizational display zone.
const DefaultDestinationZone = "America/New_York"

// DefaultFinalZone is the zone the stored absolute instant is expressed in.
const DefaultFinalZone = "UTC"

// Converter re-homes an instant into a destination zone and then a final
// zone. Both identifiers are validated when the Converter is built, before
// any timestamp is captured.
type Converter struct {
	destinationID string
	finalID       string
	destination   *time.Location
	final         *time.Location
}

// New validates both zone identifiers against the zoneinfo database.
func New(destinationID, finalID string) (*Converter, error) {
	destination, err := time.LoadLocation(destinationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, destinationID, err)
	}
	final, err := time.LoadLocation(finalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, finalID, err)
	}
	return &Converter{
		destinationID: destinationID,
		finalID:       finalID,
		destination:   destination,
		final:         final,
	}, nil
}

// Convert reinterprets now in the destination zone and returns the same
// instant expressed in the final zone. Deterministic for a fixed now.
func (c *Converter) Convert(now time.Time) time.Time {
	return now.In(c.destination).In(c.final)
}

// DestinationID returns the validated destination zone identifier.
func (c *Converter) DestinationID() string { return c.destinationID }

// FinalID returns the validated final zone identifier.
func (c *Converter) FinalID() string { return c.finalID }

// OriginalZone reports the zone the system clock is running in. The
// location name is preferred because it is a stable database identifier
// ("Europe/Athens"); the abbreviation ("EET") varies with daylight saving
// and is ambiguous across regions, so it is only a fallback for clocks Go
// could not name.
func OriginalZone(now time.Time) string {
	if name := now.Location().String(); name != "" && name != "Local" {
		return name
	}
	name, _ := now.Zone()
	return name
}
