package contacts

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"(555) 123-4567", "5551234567"},
		{"+1 555 123 4567", "5551234567"},
		{"1-555-123-4567", "5551234567"},
		{"15551234567", "5551234567"},
		{"555.123.4567", "5551234567"},
		{"5551234567", "5551234567"},
		// 11 digits not starting with 1 keep all digits.
		{"25551234567", "25551234567"},
		// Short codes pass through as their digits.
		{"90210", "90210"},
		{"", ""},
		{"ext. 12", "12"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLookupFirstWins(t *testing.T) {
	l := NewLookup()
	l.Add("(555) 123-4567", "Alice Smith")
	l.Add("+1 555 123 4567", "Alicia Smythe")

	if got := l.DisplayName("15551234567"); got != "Alice Smith" {
		t.Fatalf("duplicate key overwrote first entry: %q", got)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", l.Len())
	}
}

func TestLookupFallsBackToNormalizedNumber(t *testing.T) {
	l := NewLookup()
	if got := l.DisplayName("+1 (555) 999-0000"); got != "5559990000" {
		t.Fatalf("fallback = %q, want normalized number", got)
	}
	var nilLookup *Lookup
	if got := nilLookup.DisplayName("5550001111"); got != "5550001111" {
		t.Fatalf("nil lookup fallback = %q", got)
	}
}

func TestEntriesOrderedByNumber(t *testing.T) {
	l := NewLookup()
	l.Add("5559990000", "Zed")
	l.Add("5551230000", "Alice")
	l.Add("5554560000", "Mid")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"5551230000", "5554560000", "5559990000"}
	for i, n := range want {
		if entries[i].Number != n {
			t.Fatalf("entries[%d] = %+v, want number %s", i, entries[i], n)
		}
	}
}

func TestLookupIgnoresEmptyKeysAndNames(t *testing.T) {
	l := NewLookup()
	l.Add("", "Nobody")
	l.Add("---", "Dashes Only")
	l.Add("5551230000", "   ")
	if l.Len() != 0 {
		t.Fatalf("expected empty lookup, got %d entries", l.Len())
	}
}
