// Package amendment tracks the version pair a user is comparing and guards
// against applying a diff that was requested for an older selection.
package amendment

import (
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// State is what the redline pane should show.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateNoDifferences
	StateChanges
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNoDifferences:
		return "no_differences"
	case StateChanges:
		return "changes"
	case StateFailed:
		return "failed"
	default:
		return "empty"
	}
}

// DiffRequest identifies one diff fetch. Generation ties the response back
// to the selection it was issued for.
type DiffRequest struct {
	Generation uint64
	V1         string
	V2         string
}

// Comparison is the amendment view state for one deal family.
type Comparison struct {
	family     string
	versions   []string
	v1, v2     string
	generation uint64
	inFlight   bool
	diff       *deal.VersionDiff
	err        error
}

// NewComparison returns an empty comparison for a deal family.
func NewComparison(family string) *Comparison {
	return &Comparison{family: family}
}

// Family returns the base deal family.
func (c *Comparison) Family() string { return c.family }

// Versions returns the version identifiers in backend order.
func (c *Comparison) Versions() []string {
	out := make([]string, len(c.versions))
	copy(out, c.versions)
	return out
}

// Selection returns the current pair.
func (c *Comparison) Selection() (v1, v2 string) { return c.v1, c.v2 }

// Diff returns the applied diff, nil until one arrives.
func (c *Comparison) Diff() *deal.VersionDiff { return c.diff }

// Err returns the error of the last applied request.
func (c *Comparison) Err() error { return c.err }

// Generation returns the generation of the latest issued request.
func (c *Comparison) Generation() uint64 { return c.generation }

// SelectFamily switches to another deal family. Everything fetched for the
// previous family is dropped and any in-flight diff becomes stale.
func (c *Comparison) SelectFamily(family string) {
	c.family = family
	c.versions = nil
	c.v1, c.v2 = "", ""
	c.diff, c.err = nil, nil
	c.inFlight = false
	c.generation++
}

// AcceptsVersions reports whether a version list fetched for family still
// matches the selected family.
func (c *Comparison) AcceptsVersions(family string) bool {
	return family == c.family
}

// SetVersions installs a freshly fetched version list for family and resets
// the selection: the first two versions when there are at least two, only v1
// when there is one, nothing otherwise. It returns a request when both sides
// end up selected.
func (c *Comparison) SetVersions(family string, versions []string) (DiffRequest, bool) {
	c.family = family
	c.versions = append([]string(nil), versions...)
	c.v1, c.v2 = "", ""
	c.diff, c.err = nil, nil
	c.inFlight = false
	c.generation++

	if len(versions) >= 1 {
		c.v1 = versions[0]
	}
	if len(versions) >= 2 {
		c.v2 = versions[1]
	}
	return c.issue()
}

// SelectV1 changes the base side of the comparison.
func (c *Comparison) SelectV1(v string) (DiffRequest, bool) {
	c.v1 = v
	return c.issue()
}

// SelectV2 changes the target side of the comparison.
func (c *Comparison) SelectV2(v string) (DiffRequest, bool) {
	c.v2 = v
	return c.issue()
}

// Retry reissues the request for the current pair.
func (c *Comparison) Retry() (DiffRequest, bool) {
	return c.issue()
}

func (c *Comparison) issue() (DiffRequest, bool) {
	if c.v1 == "" || c.v2 == "" {
		return DiffRequest{}, false
	}
	c.generation++
	c.inFlight = true
	c.err = nil
	return DiffRequest{Generation: c.generation, V1: c.v1, V2: c.v2}, true
}

// IsCurrent reports whether a response for gen should be applied.
func (c *Comparison) IsCurrent(gen uint64) bool {
	return gen == c.generation
}

// ApplyDiff installs a diff if it answers the latest request. It reports
// whether the diff was applied.
func (c *Comparison) ApplyDiff(gen uint64, diff *deal.VersionDiff) bool {
	if !c.IsCurrent(gen) {
		return false
	}
	c.inFlight = false
	c.diff = diff
	c.err = nil
	return true
}

// ApplyError records a failed fetch if it answers the latest request. The
// previous diff is dropped so a stale redline is never shown for the new
// pair.
func (c *Comparison) ApplyError(gen uint64, err error) bool {
	if !c.IsCurrent(gen) {
		return false
	}
	c.inFlight = false
	c.diff = nil
	c.err = err
	return true
}

// State returns what the redline pane should render.
func (c *Comparison) State() State {
	switch {
	case c.inFlight:
		return StateLoading
	case c.err != nil:
		return StateFailed
	case c.diff == nil:
		return StateEmpty
	case c.diff.IsEmpty():
		return StateNoDifferences
	default:
		return StateChanges
	}
}

// Marker is one point on the version timeline.
type Marker struct {
	Index    int
	Version  string
	Label    string
	Selected bool
}

// Timeline returns one marker per version in backend order.
func (c *Comparison) Timeline() []Marker {
	markers := make([]Marker, len(c.versions))
	for i, v := range c.versions {
		markers[i] = Marker{
			Index:    i,
			Version:  v,
			Label:    deal.ShortVersionName(c.family, v),
			Selected: v == c.v1 || v == c.v2,
		}
	}
	return markers
}
