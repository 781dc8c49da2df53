package amount

import (
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw    string
		sep    Separator
		expect float64
		ok     bool
	}{
		{raw: "1,234.56", sep: SepAuto, expect: 1234.56, ok: true},
		{raw: "1.234,56", sep: SepAuto, expect: 1234.56, ok: true},
		{raw: "1.234", sep: SepAuto, expect: 1234, ok: true},
		{raw: "1,234", sep: SepAuto, expect: 1234, ok: true},
		{raw: "150.00", sep: SepAuto, expect: 150, ok: true},
		{raw: "0,5", sep: SepAuto, expect: 0.5, ok: true},
		{raw: "USD 12.50", sep: SepAuto, expect: 12.5, ok: true},
		{raw: "**3380.00**", sep: SepAuto, expect: 3380, ok: true},
		{raw: "12 Unidad", sep: SepAuto, expect: 12, ok: true},
		{raw: "$ 1.100,25", sep: SepComma, expect: 1100.25, ok: true},
		{raw: "1.234", sep: SepDot, expect: 1.234, ok: true},
		{raw: "1.234", sep: SepComma, expect: 1234, ok: true},
		{raw: "1234.56", sep: SepComma, expect: 1234.56, ok: true},
		{raw: "850.00", sep: SepComma, expect: 850, ok: true},
		{raw: "1234,56", sep: SepDot, expect: 1234.56, ok: true},
		{raw: "1,100", sep: SepComma, expect: 1.1, ok: true},
		{raw: "", sep: SepAuto, ok: false},
		{raw: "N/A", sep: SepAuto, ok: false},
		{raw: "USD", sep: SepDot, ok: false},
	}

	for _, test := range cases {
		got, ok := Parse(test.raw, test.sep)
		if ok != test.ok {
			t.Fatal("unexpected ok", "raw", test.raw, "sep", test.sep, "got", ok)
		}
		if got != test.expect {
			t.Fatal("unexpected value", "raw", test.raw, "sep", test.sep, "got", got, "want", test.expect)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	v, ok := Parse("1,234.56", SepAuto)
	if !ok || v != 1234.56 {
		t.Fatal("expected 1234.56, got", v, ok)
	}

	for _, sep := range []Separator{SepAuto, SepDot, SepComma} {
		again, ok := Parse(Format(v), sep)
		if !ok || again != v {
			t.Fatal("round trip failed", "sep", sep, "got", again)
		}
	}
}

func TestParseSeparator(t *testing.T) {
	for name, expect := range map[string]Separator{
		"auto":  SepAuto,
		"":      SepAuto,
		"dot":   SepDot,
		".":     SepDot,
		"comma": SepComma,
		",":     SepComma,
	} {
		got, err := ParseSeparator(name)
		if err != nil {
			t.Fatal(err)
		}
		if got != expect {
			t.Fatal("unexpected separator", "name", name, "got", got)
		}
	}

	_, err := ParseSeparator("semicolon")
	if err == nil {
		t.Fatal("expected error for unknown separator")
	}
}
