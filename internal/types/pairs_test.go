package types

import "testing"

func TestParseNumberPair(t *testing.T) {
	tests := []struct {
		in   string
		want NumberPair
	}{
		{"3", NumberPair{Number: 3, HasNumber: true}},
		{"3/12", NumberPair{Number: 3, Total: 12, HasNumber: true, HasTotal: true}},
		{" 4 / 9 ", NumberPair{Number: 4, Total: 9, HasNumber: true, HasTotal: true}},
		{"0/7", NumberPair{Number: 0, Total: 7, HasNumber: true, HasTotal: true}},
		{"x/7", NumberPair{Total: 7, HasTotal: true}},
		{"A1", NumberPair{}},
		{"", NumberPair{}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseNumberPair(tc.in); got != tc.want {
				t.Errorf("ParseNumberPair(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatNumberPair(t *testing.T) {
	tests := []struct {
		number, total string
		want          string
		ok            bool
	}{
		{"3", "12", "3/12", true},
		{"3", "", "3", true},
		{"", "12", "0/12", true},
		{"", "", "", false},
	}

	for _, tc := range tests {
		got, ok := FormatNumberPair(tc.number, tc.total)
		if got != tc.want || ok != tc.ok {
			t.Errorf("FormatNumberPair(%q, %q) = %q, %v; want %q, %v",
				tc.number, tc.total, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPushAndJoinNumberPair(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantItems int
		joined    string
	}{
		{"number only", "5", 1, "5"},
		{"number and total", "5/10", 2, "5/10"},
		{"leading zero kept", "05/10", 2, "05/10"},
		{"verbatim when unparseable", "Side A", 1, "Side A"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tag := NewTag(TagTypeAPE)
			PushNumberPair(tag, ItemKeyTrackNumber, ItemKeyTrackTotal, tc.in)
			if tag.Len() != tc.wantItems {
				t.Errorf("Len() = %d, want %d", tag.Len(), tc.wantItems)
			}
			joined, ok := JoinNumberPair(tag, ItemKeyTrackNumber, ItemKeyTrackTotal)
			if !ok || joined != tc.joined {
				t.Errorf("JoinNumberPair() = %q, %v; want %q", joined, ok, tc.joined)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"2019", 2019, true},
		{"2019-04-01", 2019, true},
		{" 1999/12 ", 1999, true},
		{"unknown", 0, false},
	}

	for _, tc := range tests {
		got, ok := ParseYear(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseYear(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
