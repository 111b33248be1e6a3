package font

import "testing"

func TestBookProviderFontLookup(t *testing.T) {
	book := NewFontBook()
	f := regular("Sans", WeightNormal, StyleNormal)
	book.Add(f)
	p := NewProvider(book)

	got, err := p.Font(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != f {
		t.Fatal("Font(0) should return the added font")
	}

	if _, err := p.Font(5); err != ErrNotFound {
		t.Fatalf("Font(5) error = %v, want ErrNotFound", err)
	}
}

func TestBookProviderSelect(t *testing.T) {
	book := NewFontBook()
	f := regular("Sans", WeightBold, StyleNormal)
	book.Add(f)
	p := NewProvider(book)

	id, ok := p.Select([]string{"Sans"}, Variant{Style: StyleNormal, Weight: WeightBold, Stretch: StretchNormal})
	if !ok || id != 0 {
		t.Fatalf("Select = (%d, %v), want (0, true)", id, ok)
	}

	if _, ok := p.Select([]string{"Nonexistent"}, NormalVariant()); ok {
		t.Fatal("Select with no matching family should report ok=false")
	}
}

func TestBookProviderSelectFallbackSkipsLikeFont(t *testing.T) {
	book := NewFontBook()
	a := regular("Sans", WeightNormal, StyleNormal)
	b := regular("Serif", WeightNormal, StyleNormal)
	book.Add(a, b)
	p := NewProvider(book)

	id, ok := p.SelectFallback(a, NormalVariant(), "hello")
	if !ok || id != 1 {
		t.Fatalf("SelectFallback should skip the `like` font and return the next candidate, got (%d, %v)", id, ok)
	}
}

func TestBookProviderSelectFallbackEmptyBook(t *testing.T) {
	book := NewFontBook()
	p := NewProvider(book)
	if _, ok := p.SelectFallback(nil, NormalVariant(), "hello"); ok {
		t.Fatal("SelectFallback on an empty book should report ok=false")
	}
}

func TestCoversTextDefaultAlwaysTrue(t *testing.T) {
	f := &Font{}
	if !f.CoversText("anything") {
		t.Fatal("the default CoversText should always report true")
	}
}
