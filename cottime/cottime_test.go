package cottime

import "testing"

func TestParseAndFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"seconds", "2025-06-24T14:10:00Z"},
		{"millis", "2025-06-24T14:10:00.123Z"},
		{"micros", "2025-06-24T14:10:00.123456Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			us := ToMicros(parsed)
			back := FromMicros(us)
			if !back.Equal(parsed) {
				t.Errorf("round trip via micros: got %v, want %v", back, parsed)
			}
		})
	}
}

func TestToMillisTruncatesSubMillis(t *testing.T) {
	parsed, err := Parse("2025-06-24T14:10:00.123456789Z")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := ToMillis(parsed), int64(1750774200123); got != want {
		t.Errorf("ToMillis = %d, want %d", got, want)
	}
	if got, want := ToMicros(parsed), int64(1750774200123456); got != want {
		t.Errorf("ToMicros = %d, want %d", got, want)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-a-time"); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty timestamp")
	}
}

func TestParseSafeFallsBackToZero(t *testing.T) {
	got := ParseSafe("garbage")
	if !got.Equal(Zero) {
		t.Errorf("ParseSafe fallback = %v, want %v", got, Zero)
	}
}

func TestFromMicrosString(t *testing.T) {
	const in = "2025-06-24T14:10:00.5Z"
	parsed, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	us := ToMicros(parsed)
	roundTripped, err := Parse(FromMicrosString(us))
	if err != nil {
		t.Fatalf("Parse(FromMicrosString): %v", err)
	}
	if !roundTripped.Equal(parsed) {
		t.Errorf("FromMicrosString round trip = %v, want %v", roundTripped, parsed)
	}
}
