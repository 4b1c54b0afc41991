package css

import (
	"strconv"
	"strings"
)

// ListStyleType represents the list-style-type property value
type ListStyleType string

const (
	ListStyleNone               ListStyleType = "none"
	ListStyleDisc               ListStyleType = "disc"
	ListStyleCircle             ListStyleType = "circle"
	ListStyleSquare             ListStyleType = "square"
	ListStyleDecimal            ListStyleType = "decimal"
	ListStyleDecimalLeadingZero ListStyleType = "decimal-leading-zero"
	ListStyleLowerAlpha         ListStyleType = "lower-alpha"
	ListStyleUpperAlpha         ListStyleType = "upper-alpha"
	ListStyleLowerRoman         ListStyleType = "lower-roman"
	ListStyleUpperRoman         ListStyleType = "upper-roman"
)

// IsSymbol reports whether markers of this type are a glyph rather than an
// ordinal.
func (t ListStyleType) IsSymbol() bool {
	switch t {
	case ListStyleDisc, ListStyleCircle, ListStyleSquare:
		return true
	}
	return false
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	var sb strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}

// toAlpha converts 1 → a, 26 → z, 27 → aa.
func toAlpha(n int, base byte) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{base + byte(n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// CounterText returns the marker text of a list item with the given value.
// Ordinal markers get a ". " suffix when suffix is true. Values outside the
// range of alphabetic and roman systems fall back to decimal.
func CounterText(value int, t ListStyleType, suffix bool) string {
	var s string
	switch t {
	case ListStyleNone:
		return ""
	case ListStyleDisc:
		return "•"
	case ListStyleCircle:
		return "◦"
	case ListStyleSquare:
		return "▪"
	case ListStyleDecimalLeadingZero:
		if value >= 0 && value < 10 {
			s = "0" + strconv.Itoa(value)
		} else {
			s = strconv.Itoa(value)
		}
	case ListStyleLowerAlpha, ListStyleUpperAlpha:
		if value < 1 {
			s = strconv.Itoa(value)
		} else if t == ListStyleLowerAlpha {
			s = toAlpha(value, 'a')
		} else {
			s = toAlpha(value, 'A')
		}
	case ListStyleLowerRoman, ListStyleUpperRoman:
		if value < 1 || value > 3999 {
			s = strconv.Itoa(value)
		} else if t == ListStyleLowerRoman {
			s = strings.ToLower(toRoman(value))
		} else {
			s = toRoman(value)
		}
	default:
		s = strconv.Itoa(value)
	}
	if suffix {
		s += ". "
	}
	return s
}
