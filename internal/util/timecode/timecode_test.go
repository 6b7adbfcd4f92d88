package timecode

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"5", 5, false},
		{"5.5", 5.5, false},
		{"01:30", 90, false},
		{"00:01:30", 90, false},
		{"1:02:03", 3723, false},
		{"1:02:03.250", 3723.25, false},
		{" 10 ", 10, false},
		{"", 0, true},
		{"1:2:3:4", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"1.5:30", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00.000"},
		{5.5, "00:00:05.500"},
		{90, "00:01:30.000"},
		{3723.25, "01:02:03.250"},
		{-1, "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00:05.500", "01:02:03.250", "00:01:30.000"} {
		sec, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := Format(sec); got != s {
			t.Errorf("Format(Parse(%q)) = %q", s, got)
		}
	}
}
