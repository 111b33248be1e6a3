package font

import "testing"

func TestIsFontFile(t *testing.T) {
	cases := map[string]bool{
		"a.ttf":  true,
		"a.OTF":  true,
		"a.ttc":  true,
		"a.otc":  true,
		"a.woff": false,
		"a.txt":  false,
		"noext":  false,
	}
	for path, want := range cases {
		if got := IsFontFile(path); got != want {
			t.Fatalf("IsFontFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsTTC(t *testing.T) {
	if !isTTC([]byte("ttcf\x00\x01\x00\x00")) {
		t.Fatal("expected a ttcf-prefixed header to be detected as a TTC")
	}
	if isTTC([]byte("OTTO\x00\x01\x00\x00")) {
		t.Fatal("an OTTO header should not be detected as a TTC")
	}
	if isTTC([]byte("tt")) {
		t.Fatal("data shorter than the header should not be detected as a TTC")
	}
}

func TestLoadFromBytesRejectsShortData(t *testing.T) {
	if _, err := LoadFromBytes([]byte{0, 1}, ""); err == nil {
		t.Fatal("expected an error for data shorter than a font header")
	}
}

func TestLoadFromBytesRejectsGarbage(t *testing.T) {
	if _, err := LoadFromBytes([]byte("not a font file at all"), ""); err == nil {
		t.Fatal("expected an error parsing non-font data")
	}
}

func TestLoadFromFileMissingPath(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/path/does-not-exist.ttf"); err == nil {
		t.Fatal("expected an error reading a missing font file")
	}
}
