package dataset

import (
	"io"
	"strings"
	"testing"
)

func TestCappedReader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int64
		wantErr bool
	}{
		{"below limit", "abc", 8, false},
		{"exactly at limit", "abcdefgh", 8, false},
		{"one byte over limit", "abcdefghi", 8, true},
		{"empty", "", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &cappedReader{
				ReadCloser: io.NopCloser(strings.NewReader(tt.content)),
				n:          tt.limit,
				source:     "test",
			}
			got, err := io.ReadAll(r)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "exceeds size limit") {
					t.Errorf("ReadAll() error = %v, want size limit error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadAll() unexpected error: %v", err)
			}
			if string(got) != tt.content {
				t.Errorf("ReadAll() = %q, want %q", got, tt.content)
			}
		})
	}
}
