package reference

import "testing"

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		name string
		want Author
	}{
		{"Clara I. Sánchez", Author{First: "Clara I.", Last: "Sánchez"}},
		{"Bram van Ginneken", Author{First: "Bram van", Last: "Ginneken"}},
		{"Martin Luther King Jr.", Author{First: "Martin Luther", Last: "King Jr."}},
		{"Madonna", Author{Last: "Madonna"}},
		{"  ", Author{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAuthor(tt.name); got != tt.want {
				t.Errorf("ParseAuthor(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestCandidate_Label(t *testing.T) {
	c := Candidate{
		Title:   "Lung nodule detection",
		Year:    2023,
		Authors: []Author{{First: "Colin", Last: "Jacobs"}, {First: "Bram", Last: "van Ginneken"}},
	}
	if got, want := c.Label(), "Jacobs et al. (2023) Lung nodule detection"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
	if got := (Candidate{Title: "T"}).Label(); got != "T" {
		t.Errorf("Label() = %q, want %q", got, "T")
	}
}

func TestCandidate_URL(t *testing.T) {
	if got := (Candidate{ExternalID: "abc"}).URL(); got != PaperURLPrefix+"abc" {
		t.Errorf("URL() = %q", got)
	}
	if got := (Candidate{}).URL(); got != "" {
		t.Errorf("URL() = %q, want empty", got)
	}
}
