package deal

import "testing"

func TestVersionDiff_Lines(t *testing.T) {
	d := &VersionDiff{Changes: []string{"+ New clause", "- Removed clause", " Unchanged line"}}
	lines := d.Lines()

	want := []DiffLine{
		{Kind: LineAdded, Text: "+ New clause"},
		{Kind: LineRemoved, Text: "- Removed clause"},
		{Kind: LineContext, Text: " Unchanged line"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}

	added, removed := d.Stats()
	if added != 1 || removed != 1 {
		t.Errorf("Stats() = %d, %d, want 1, 1", added, removed)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"+added", LineAdded},
		{"-removed", LineRemoved},
		{"context", LineContext},
		{"", LineContext},
		{" +indented", LineContext},
		{"++double", LineAdded},
	}
	for _, tt := range tests {
		if got := ClassifyLine(tt.line); got != tt.want {
			t.Errorf("ClassifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestVersionDiff_IsEmpty(t *testing.T) {
	var nilDiff *VersionDiff
	if !nilDiff.IsEmpty() {
		t.Error("nil diff should be empty")
	}
	if !(&VersionDiff{}).IsEmpty() {
		t.Error("diff without changes should be empty")
	}
	if nilDiff.Lines() != nil {
		t.Error("nil diff should have no lines")
	}
}

func TestDisplayVersionName(t *testing.T) {
	if got := DisplayVersionName("Deal_Delta_Oct2022.txt"); got != "Deal Delta Oct2022" {
		t.Errorf("DisplayVersionName = %q", got)
	}
	if got := ShortVersionName("Deal_Delta", "Deal_Delta_Mar2023.txt"); got != "Mar2023" {
		t.Errorf("ShortVersionName = %q", got)
	}
	if got := ShortVersionName("", "Other.txt"); got != "Other" {
		t.Errorf("ShortVersionName without family = %q", got)
	}
}
