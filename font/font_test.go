package font

import "testing"

func TestStyleString(t *testing.T) {
	cases := map[Style]string{
		StyleNormal:  "normal",
		StyleItalic:  "italic",
		StyleOblique: "oblique",
		Style(99):    "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Style(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestWeightString(t *testing.T) {
	cases := map[Weight]string{
		WeightThin:      "thin",
		WeightNormal:    "normal",
		WeightBold:      "bold",
		WeightBlack:     "black",
		Weight(1000):    "black",
	}
	for w, want := range cases {
		if got := w.String(); got != want {
			t.Fatalf("Weight(%d).String() = %q, want %q", w, got, want)
		}
	}
}

func TestStretchString(t *testing.T) {
	cases := map[Stretch]string{
		StretchUltraCondensed: "ultra-condensed",
		StretchNormal:         "normal",
		StretchUltraExpanded:  "ultra-expanded",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Stretch(%v).String() = %q, want %q", s, got, want)
		}
	}
}

func TestNormalBoldItalicVariants(t *testing.T) {
	n := NormalVariant()
	if n.Style != StyleNormal || n.Weight != WeightNormal || n.Stretch != StretchNormal {
		t.Fatalf("NormalVariant() = %+v, want all-normal", n)
	}
	b := BoldVariant()
	if b.Weight != WeightBold || b.Style != StyleNormal {
		t.Fatalf("BoldVariant() = %+v, want bold weight, normal style", b)
	}
	i := ItalicVariant()
	if i.Style != StyleItalic || i.Weight != WeightNormal {
		t.Fatalf("ItalicVariant() = %+v, want italic style, normal weight", i)
	}
	bi := BoldItalicVariant()
	if bi.Style != StyleItalic || bi.Weight != WeightBold {
		t.Fatalf("BoldItalicVariant() = %+v, want italic+bold", bi)
	}
}

func TestFontAccessors(t *testing.T) {
	f := &Font{Info: FontInfo{Family: "Test Sans", Style: StyleItalic, Weight: WeightBold}}
	if f.Family() != "Test Sans" {
		t.Fatalf("Family() = %q, want %q", f.Family(), "Test Sans")
	}
	if f.Style() != StyleItalic {
		t.Fatalf("Style() = %v, want StyleItalic", f.Style())
	}
	if f.Weight() != int(WeightBold) {
		t.Fatalf("Weight() = %d, want %d", f.Weight(), int(WeightBold))
	}
}

func TestFindName(t *testing.T) {
	f := &Font{Info: FontInfo{
		Family:         "Test Sans",
		FullName:       "Test Sans Bold",
		PostScriptName: "TestSans-Bold",
	}}
	if name, ok := f.FindName(NameFamily); !ok || name != "Test Sans" {
		t.Fatalf("FindName(NameFamily) = (%q, %v), want (%q, true)", name, ok, "Test Sans")
	}
	if name, ok := f.FindName(NameFullName); !ok || name != "Test Sans Bold" {
		t.Fatalf("FindName(NameFullName) = (%q, %v), want (%q, true)", name, ok, "Test Sans Bold")
	}
	if name, ok := f.FindName(NamePostScript); !ok || name != "TestSans-Bold" {
		t.Fatalf("FindName(NamePostScript) = (%q, %v), want (%q, true)", name, ok, "TestSans-Bold")
	}
	if _, ok := f.FindName(NameSubfamily); ok {
		t.Fatal("FindName(NameSubfamily) should report no data when FontInfo has no subfamily field")
	}
	if _, ok := f.FindName(0xFFFF); ok {
		t.Fatal("FindName with an unrecognized name-id should return false")
	}
}

func TestFindNameMissingField(t *testing.T) {
	f := &Font{}
	if _, ok := f.FindName(NameFamily); ok {
		t.Fatal("FindName should report false for an empty family")
	}
}
