package deal

import "strings"

// LineKind classifies a redline line.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

func (k LineKind) String() string {
	switch k {
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "context"
	}
}

// DiffLine is one classified line. Text is the raw line, prefix included.
type DiffLine struct {
	Kind LineKind
	Text string
}

// VersionDiff is the backend comparison of two versions of a deal.
type VersionDiff struct {
	Changes []string `json:"changes"`
}

// IsEmpty reports whether the diff carries no lines.
func (d *VersionDiff) IsEmpty() bool {
	return d == nil || len(d.Changes) == 0
}

// Lines classifies every change in backend order.
func (d *VersionDiff) Lines() []DiffLine {
	if d == nil {
		return nil
	}
	lines := make([]DiffLine, len(d.Changes))
	for i, raw := range d.Changes {
		lines[i] = DiffLine{Kind: ClassifyLine(raw), Text: raw}
	}
	return lines
}

// Stats counts added and removed lines.
func (d *VersionDiff) Stats() (added, removed int) {
	for _, l := range d.Lines() {
		switch l.Kind {
		case LineAdded:
			added++
		case LineRemoved:
			removed++
		}
	}
	return added, removed
}

// ClassifyLine looks at the leading character only.
func ClassifyLine(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "+"):
		return LineAdded
	case strings.HasPrefix(line, "-"):
		return LineRemoved
	default:
		return LineContext
	}
}

// DisplayVersionName turns a version identifier such as
// "Deal_Delta_Oct2022.txt" into "Deal Delta Oct2022". Identifiers sent to the
// backend are never rewritten.
func DisplayVersionName(v string) string {
	return strings.ReplaceAll(strings.TrimSuffix(v, ".txt"), "_", " ")
}

// ShortVersionName drops the family prefix from a version identifier, so
// "Deal_Delta_Oct2022.txt" in family "Deal_Delta" becomes "Oct2022".
func ShortVersionName(family, v string) string {
	short := strings.TrimSuffix(v, ".txt")
	if family != "" {
		short = strings.TrimPrefix(short, family+"_")
	}
	return short
}
