package pipeline

import (
	"testing"

	"reroute/internal/model"
)

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "pdf",
		"archive.tar.gz": "gz",
		"partial.tmp":    "tmp",
		"README":         "",
		".tmp":           "",
		".bashrc":        "",
		"trailing.":      "",
		"UPPER.TMP":      "TMP",
	}

	for name, want := range cases {
		if got := Extension(name); got != want {
			t.Errorf("Extension(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDefaultFilter(t *testing.T) {
	accept := Filter([]string{"tmp"}, nil)

	cases := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"partial.tmp", false},
		{"Partial.TMP", true},
		{"no_extension", true},
		{".tmp", true},
		{"video.tmp.mkv", true},
	}

	for _, tc := range cases {
		if got := accept(model.Event{Kind: model.EventFileCreated, Name: tc.name}); got != tc.want {
			t.Errorf("filter(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterIgnoreList(t *testing.T) {
	accept := Filter([]string{"tmp", "part"}, []string{".DS_Store", "*.crdownload", "~$*"})

	cases := []struct {
		name string
		want bool
	}{
		{".DS_Store", false},
		{"setup.exe.crdownload", false},
		{"~$budget.xlsx", false},
		{"movie.part", false},
		{"budget.xlsx", true},
	}

	for _, tc := range cases {
		if got := accept(model.Event{Name: tc.name}); got != tc.want {
			t.Errorf("filter(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
