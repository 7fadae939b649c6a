package evaluate

import (
	"math"
	"testing"
)

func TestAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		ranked []string
		actual []string
		want   Metrics
	}{
		{
			name:   "first place",
			ranked: []string{"A", "B", "C"},
			actual: []string{"A"},
			want:   Metrics{Evaluated: 1, Top1: 1, Top3: 1, Top5: 1, Top10: 1, MRR: 1},
		},
		{
			name:   "second place",
			ranked: []string{"B", "A", "C"},
			actual: []string{"A"},
			want:   Metrics{Evaluated: 1, Top3: 1, Top5: 1, Top10: 1, MRR: 0.5},
		},
		{
			name:   "best of several actual reviewers counts",
			ranked: []string{"C", "D", "E", "F", "B", "A"},
			actual: []string{"A", "B"},
			want:   Metrics{Evaluated: 1, Top5: 1, Top10: 1, MRR: 0.2},
		},
		{
			name:   "beyond top ten",
			ranked: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "A"},
			actual: []string{"A"},
			want:   Metrics{Evaluated: 1, MRR: 1.0 / 11},
		},
		{
			name:   "miss",
			ranked: []string{"B", "C"},
			actual: []string{"A"},
			want:   Metrics{Evaluated: 1, MRR: 1.0 / (missRank + 1)},
		},
		{
			name:   "empty recommendation",
			actual: []string{"A"},
			want:   Metrics{Evaluated: 1, MRR: 1.0 / (missRank + 1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc accumulator
			acc.add(tt.ranked, tt.actual)
			got := acc.metrics()

			if got.Evaluated != tt.want.Evaluated ||
				got.Top1 != tt.want.Top1 || got.Top3 != tt.want.Top3 ||
				got.Top5 != tt.want.Top5 || got.Top10 != tt.want.Top10 {
				t.Errorf("metrics() = %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.MRR-tt.want.MRR) > 1e-12 {
				t.Errorf("MRR = %v, want %v", got.MRR, tt.want.MRR)
			}
		})
	}
}

func TestAccumulatorAverages(t *testing.T) {
	var acc accumulator
	acc.add([]string{"A"}, []string{"A"})
	acc.add([]string{"B", "A"}, []string{"A"})

	got := acc.metrics()
	if got.Evaluated != 2 || got.Top1 != 0.5 || got.Top3 != 1 || got.MRR != 0.75 {
		t.Errorf("metrics() = %+v, want 2 evaluated, top1 0.5, top3 1, mrr 0.75", got)
	}

	var empty accumulator
	if m := empty.metrics(); m != (Metrics{}) {
		t.Errorf("empty metrics() = %+v, want zero", m)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{0.333333, 0.33},
		{0.666666, 0.67},
		{0.125, 0.13},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
