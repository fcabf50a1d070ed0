package watch

import "testing"

func TestFileFilter_Matches(t *testing.T) {
	f := DefaultFileFilter()
	tests := []struct {
		path string
		want bool
	}{
		{"deals/Deal_Alpha.txt", true},
		{"deals/Deal_Beta.TXT", true},
		{"deals/notes.md", false},
		{"deals/.Deal_Alpha.txt", false},
		{"deals/Deal_Alpha.txt~", false},
		{"deals/Deal_Alpha.txt.swp", false},
		{"deals/upload.tmp", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := f.Matches(tt.path); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileFilter_NoExtensions(t *testing.T) {
	f := &FileFilter{Exclude: []string{"*.log"}}
	if !f.Matches("a.md") || f.Matches("a.log") {
		t.Error("unexpected match result")
	}
}
