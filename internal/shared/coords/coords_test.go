package coords

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinates
		wantErr bool
	}{
		{name: "plain", input: "3:7:9", want: Coordinates{Galaxy: 3, System: 7, Planet: 9}},
		{name: "marker position", input: "3:7:0", want: Coordinates{Galaxy: 3, System: 7, Planet: 0}},
		{name: "surrounding whitespace", input: " 1:250:15 ", want: Coordinates{Galaxy: 1, System: 250, Planet: 15}},
		{name: "too few parts", input: "3:7", wantErr: true},
		{name: "too many parts", input: "3:7:9:1", wantErr: true},
		{name: "non numeric", input: "3:seven:9", wantErr: true},
		{name: "negative", input: "3:-7:9", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := New(4, 182, 8)
	parsed, err := Parse(c.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != c {
		t.Fatalf("round trip mismatch: %v != %v", parsed, c)
	}
}

func TestMarker(t *testing.T) {
	c := New(3, 7, 9)
	if c.IsMarker() {
		t.Fatalf("%v should not be a marker", c)
	}

	marker := c.Marker()
	if !marker.IsMarker() {
		t.Fatalf("%v should be a marker", marker)
	}
	if marker.String() != "3:7:0" {
		t.Fatalf("marker rendered as %q", marker.String())
	}
}
