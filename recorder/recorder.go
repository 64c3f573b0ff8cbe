// Package recorder captures time-zone normalized start and end timestamps
// for a deployment run and derives the elapsed duration. State lives in the
// variable store, not in-process: Start and End typically run in separate
// invocations that share a store namespace.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"osdstamp/tsenv"
	"osdstamp/tzconvert"
)

// Variable name suffixes appended to the caller-supplied prefix.
const (
	SuffixOriginalTimeZone    = "OSDOriginalTimeZoneID"
	SuffixDestinationTimeZone = "OSDDestinationTimeZoneID"
	SuffixConversionTimeZone  = "OSDConversionTimeZoneID"
	SuffixStartTime           = "OSDStartTime"
	SuffixEndTime             = "OSDEndTime"
	SuffixTotalTime           = "OSDTotalTime"
)

// StampLayout is RFC 3339 held to millisecond precision; stored timestamps
// round-trip through it without losing the offset or the milliseconds.
const StampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrMissingStartTimestamp reports an End invocation with no stored start.
var ErrMissingStartTimestamp = errors.New("start timestamp not found in variable store")

// Names holds the fully derived variable names for one run namespace.
type Names struct {
	OriginalTimeZone    string
	DestinationTimeZone string
	ConversionTimeZone  string
	Start               string
	End                 string
	Total               string
}

// DeriveNames builds variable names from prefix plus the fixed suffixes.
// A non-empty prefix must end in a separator rune so that names stay
// readable in the task-sequence environment. Overrides replace the derived
// start or end name verbatim.
func DeriveNames(prefix, startOverride, endOverride string) (Names, error) {
	if prefix != "" {
		last := rune(prefix[len(prefix)-1])
		if unicode.IsLetter(last) || unicode.IsDigit(last) {
			return Names{}, fmt.Errorf("variable prefix %q must end with a separator character", prefix)
		}
	}
	names := Names{
		OriginalTimeZone:    prefix + SuffixOriginalTimeZone,
		DestinationTimeZone: prefix + SuffixDestinationTimeZone,
		ConversionTimeZone:  prefix + SuffixConversionTimeZone,
		Start:               prefix + SuffixStartTime,
		End:                 prefix + SuffixEndTime,
		Total:               prefix + SuffixTotalTime,
	}
	if startOverride != "" {
		names.Start = startOverride
	}
	if endOverride != "" {
		names.End = endOverride
	}
	return names, nil
}

// Variable is one name/value pair written during a transition.
type Variable struct {
	Name  string
	Value string
}

// Recorder runs the Start and End transitions against a variable store.
type Recorder struct {
	store tsenv.Store
	conv  *tzconvert.Converter
	names Names
	log   *slog.Logger
	now   func() time.Time
}

// New builds a Recorder using the system clock.
func New(store tsenv.Store, conv *tzconvert.Converter, names Names, log *slog.Logger) *Recorder {
	return &Recorder{store: store, conv: conv, names: names, log: log, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// StartResult reports what a Start transition wrote.
type StartResult struct {
	Stamp   time.Time
	Written []Variable
}

// Start captures the current instant, converts it, and writes it together
// with the three zone identifiers. Re-running Start overwrites the previous
// values; the last write is what a later End reads.
func (r *Recorder) Start() (StartResult, error) {
	now := r.now()
	stamp := r.conv.Convert(now)

	vars := []Variable{
		{r.names.OriginalTimeZone, tzconvert.OriginalZone(now)},
		{r.names.DestinationTimeZone, r.conv.DestinationID()},
		{r.names.ConversionTimeZone, r.conv.FinalID()},
		{r.names.Start, stamp.Format(StampLayout)},
	}
	if err := r.write(vars); err != nil {
		return StartResult{}, err
	}

	r.log.Info("recorded deployment start",
		"variable", r.names.Start,
		"start", stamp.Format(StampLayout))
	return StartResult{Stamp: stamp, Written: vars}, nil
}

// EndResult reports what an End transition wrote. Started is false when no
// start timestamp was found; Elapsed and Total are only meaningful when it
// is true.
type EndResult struct {
	Stamp   time.Time
	Started bool
	Start   time.Time
	Elapsed time.Duration
	Total   string
	Written []Variable
}

// End captures and writes the end instant. When a start timestamp exists in
// the store it also computes and writes the elapsed duration; when it does
// not, End warns and skips the duration rather than failing the run.
// Repeat End calls recompute against the same stored start, which suits
// polling-style duration checks.
func (r *Recorder) End() (EndResult, error) {
	stamp := r.conv.Convert(r.now())
	result := EndResult{Stamp: stamp}

	raw, ok := r.store.Get(r.names.Start)
	if !ok {
		r.log.Warn("cannot compute total time, run the start transition first",
			"variable", r.names.Start,
			"reason", ErrMissingStartTimestamp)
		result.Written = []Variable{{r.names.End, stamp.Format(StampLayout)}}
		if err := r.write(result.Written); err != nil {
			return EndResult{}, err
		}
		return result, nil
	}

	start, err := time.Parse(StampLayout, raw)
	if err != nil {
		return EndResult{}, fmt.Errorf("parse stored start timestamp %q: %w", raw, err)
	}

	elapsed := stamp.Sub(start)
	if elapsed < 0 {
		r.log.Warn("end precedes recorded start, clock may have regressed",
			"start", raw,
			"end", stamp.Format(StampLayout))
	}

	result.Started = true
	result.Start = start
	result.Elapsed = elapsed
	result.Total = FormatTotal(elapsed)
	result.Written = []Variable{
		{r.names.End, stamp.Format(StampLayout)},
		{r.names.Total, result.Total},
	}
	if err := r.write(result.Written); err != nil {
		return EndResult{}, err
	}

	r.log.Info("recorded deployment end",
		"variable", r.names.End,
		"end", stamp.Format(StampLayout),
		"total", result.Total)
	return result, nil
}

func (r *Recorder) write(vars []Variable) error {
	for _, v := range vars {
		if err := r.store.Set(v.Name, v.Value); err != nil {
			return fmt.Errorf("set variable %s: %w", v.Name, err)
		}
	}
	return nil
}

// FormatTotal renders a duration as the breakdown the task sequence stores,
// e.g. "1 hours, 2 minutes, 3 seconds, and 4 milliseconds". Negative
// durations keep their sign and are otherwise formatted from the absolute
// value.
func FormatTotal(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%s%d hours, %d minutes, %d seconds, and %d milliseconds",
		sign, hours, minutes, seconds, millis)
}
