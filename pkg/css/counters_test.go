package css

import "testing"

func TestCounterText(t *testing.T) {
	tests := []struct {
		value  int
		typ    ListStyleType
		suffix bool
		want   string
	}{
		{3, ListStyleDecimal, true, "3. "},
		{3, ListStyleDecimal, false, "3"},
		{7, ListStyleDecimalLeadingZero, true, "07. "},
		{12, ListStyleDecimalLeadingZero, false, "12"},
		{1, ListStyleLowerAlpha, true, "a. "},
		{28, ListStyleUpperAlpha, false, "AB"},
		{0, ListStyleLowerAlpha, false, "0"},
		{1994, ListStyleUpperRoman, false, "MCMXCIV"},
		{4, ListStyleLowerRoman, true, "iv. "},
		{5, ListStyleDisc, true, "•"},
		{5, ListStyleNone, true, ""},
	}
	for _, tt := range tests {
		got := CounterText(tt.value, tt.typ, tt.suffix)
		if got != tt.want {
			t.Errorf("CounterText(%d, %s, %v) = %q, want %q", tt.value, tt.typ, tt.suffix, got, tt.want)
		}
	}
}
