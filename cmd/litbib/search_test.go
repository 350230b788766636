package main

import "testing"

func TestParseYearRange(t *testing.T) {
	tests := []struct {
		spec     string
		wantFrom int
		wantTo   int
		wantErr  bool
	}{
		{"", 0, 0, false},
		{"2024", 2024, 2024, false},
		{"2020:2024", 2020, 2024, false},
		{"2020:", 2020, 0, false},
		{":2024", 0, 2024, false},
		{" 2021 ", 2021, 2021, false},
		{"2024:2020", 0, 0, true},
		{"abc", 0, 0, true},
		{"20x0:2024", 0, 0, true},
		{"2020:abc", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			from, to, err := parseYearRange(tt.spec)

			if (err != nil) != tt.wantErr {
				t.Errorf("parseYearRange(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if from != tt.wantFrom {
					t.Errorf("parseYearRange(%q) from = %d, want %d", tt.spec, from, tt.wantFrom)
				}
				if to != tt.wantTo {
					t.Errorf("parseYearRange(%q) to = %d, want %d", tt.spec, to, tt.wantTo)
				}
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString() = %q", got)
	}
	if got := truncateString("a longer title", 10); got != "a longe..." {
		t.Errorf("truncateString() = %q, want %q", got, "a longe...")
	}
}
