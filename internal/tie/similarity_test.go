package tie

import (
	"fmt"
	"testing"
)

func sub(id string, files ...string) *submission {
	return &submission{ID: ID(id), Files: files}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical single file", []string{"src/a.py"}, []string{"src/a.py"}, 1.0 / 2.0},
		{"disjoint", []string{"src/a.py"}, []string{"docs/b.md"}, 0},
		{"shared directory", []string{"src/a.py"}, []string{"src/b.py"}, 0.5 / 2.0},
		{"different depths", []string{"src/a.py"}, []string{"src/pkg/a.py"}, (2.0 / 3.0) / 2.0},
		{"repeated segments count once", []string{"a/a/a"}, []string{"a"}, 1.0 / 2.0},
		{"many pairs", []string{"src/a.py", "src/b.py"}, []string{"src/a.py"}, (1.0 + 0.5) / 3.0},
		{"first empty", nil, []string{"src/a.py"}, 0},
		{"second empty", []string{"src/a.py"}, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, nil, nil, DefaultConfig())
			got := m.similarity(sub("a", tt.a...), sub("b", tt.b...))
			if !almostEqual(got, tt.want) {
				t.Errorf("similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityEmptyIsNotCached(t *testing.T) {
	m := newTestModel(t, nil, nil, DefaultConfig())
	m.similarity(sub("a"), sub("b", "src/a.py"))
	if got := m.sims.len(); got != 0 {
		t.Errorf("cache size = %d, want 0", got)
	}
}

func TestSimilarityTruncatesFiles(t *testing.T) {
	files := make([]string, maxSimilarityFiles+1)
	for i := range files {
		files[i] = fmt.Sprintf("gen%d", i)
	}
	files[maxSimilarityFiles] = "match"

	m := newTestModel(t, nil, nil, DefaultConfig())
	if got := m.similarity(sub("a", files...), sub("b", "match")); got != 0 {
		t.Errorf("similarity() = %v, want 0 since the matching file is past the cap", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := sub("a", "core/net/http.go", "core/net/url.go", "docs/net.md", "Makefile")
	b := sub("b", "core/net/http_test.go", "core/io/reader.go", "Makefile")

	m := newTestModel(t, nil, nil, DefaultConfig())
	ab := m.similarity(a, b)
	ba := m.similarity(b, a)
	if !almostEqual(ab, ba) {
		t.Errorf("similarity(a,b) = %v, similarity(b,a) = %v", ab, ba)
	}

	// cached on both orders now; hits must agree with the computed values
	if got := m.similarity(a, b); got != ab {
		t.Errorf("cached similarity(a,b) = %v, want %v", got, ab)
	}
	if got := m.similarity(b, a); got != ba {
		t.Errorf("cached similarity(b,a) = %v, want %v", got, ba)
	}
}

func TestSimilarityCacheKeyIsOrdered(t *testing.T) {
	m := newTestModel(t, nil, nil, DefaultConfig())
	a := sub("a", "src/a.py")
	b := sub("b", "src/a.py")

	first := m.similarity(a, b)
	// a cache hit ignores the files, which proves the value came from the cache
	a.Files = []string{"other/place.txt"}
	if got := m.similarity(a, b); got != first {
		t.Errorf("similarity(a,b) = %v, want cached %v", got, first)
	}
	if got := m.similarity(b, a); got != 0 {
		t.Errorf("similarity(b,a) = %v, want freshly computed 0", got)
	}
	if got := m.sims.len(); got != 2 {
		t.Errorf("cache size = %d, want 2", got)
	}
}

func TestLRUCacheIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 3
	m := newTestModel(t, nil, nil, cfg)

	target := sub("target", "src/a.py")
	for i := 0; i < 10; i++ {
		m.similarity(sub(fmt.Sprint(i), "src/a.py"), target)
	}
	if got := m.sims.len(); got != 3 {
		t.Errorf("cache size = %d, want 3", got)
	}

	entries := m.sims.entries()
	want := []ID{"7", "8", "9"}
	for i, e := range entries {
		if e.A != want[i] {
			t.Errorf("entries()[%d].A = %q, want %q", i, e.A, want[i])
		}
	}
}

func TestMapCacheEntriesAreSorted(t *testing.T) {
	m := newTestModel(t, nil, nil, DefaultConfig())
	target := sub("t", "x")
	for _, id := range []string{"c", "a", "b"} {
		m.similarity(sub(id, "x"), target)
	}

	entries := m.sims.entries()
	if len(entries) != 3 {
		t.Fatalf("entries() length = %d, want 3", len(entries))
	}
	for i, want := range []ID{"a", "b", "c"} {
		if entries[i].A != want {
			t.Errorf("entries()[%d].A = %q, want %q", i, entries[i].A, want)
		}
	}
}
