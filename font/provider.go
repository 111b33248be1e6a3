package font

// Provider is the font-provider interface external to this core (§1,
// §4.7): it is assumed, never implemented here against real font files --
// callers supply one backed by whatever font loading they already do
// (the FontBook in this package is a usable default implementation, not
// the only one).
type Provider interface {
	// Book returns the enumerable font metadata index.
	Book() *FontBook

	// Font returns the font bytes and parsed tables for an id (an index
	// into Book()'s Fonts()).
	Font(id int) (*Font, error)

	// Select finds the best variant match (exact > style > stretch-
	// distance > weight-distance) among fonts in any of the given
	// families, returning its id in Book() order.
	Select(families []string, variant Variant) (id int, ok bool)

	// SelectFallback finds a last-resort font able to cover text, used
	// when the primary family iterator is exhausted (§4.4 step 4).
	SelectFallback(like *Font, variant Variant, text string) (id int, ok bool)
}

// bookProvider is the default Provider backed by an in-memory FontBook.
type bookProvider struct {
	book *FontBook
}

// NewProvider wraps a FontBook as a Provider.
func NewProvider(book *FontBook) Provider {
	return &bookProvider{book: book}
}

func (p *bookProvider) Book() *FontBook { return p.book }

func (p *bookProvider) Font(id int) (*Font, error) {
	f := p.book.Font(id)
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (p *bookProvider) Select(families []string, variant Variant) (int, bool) {
	f := p.book.Select(families, variant)
	if f == nil {
		return 0, false
	}
	return p.book.IndexOf(f), true
}

// SelectFallback tries every remaining font in book order and returns
// the first one whose coverage includes every rune of text. Coverage
// testing against real font cmaps is the font loader's job (out of
// scope, §1); CoversText is a seam a real Provider overrides.
func (p *bookProvider) SelectFallback(like *Font, variant Variant, text string) (int, bool) {
	for i, f := range p.book.Fonts() {
		if like != nil && f == like {
			continue
		}
		if f.CoversText(text) {
			return i, true
		}
	}
	if p.book.Len() > 0 {
		return 0, true
	}
	return 0, false
}

// CoversText reports whether the font claims to cover every rune of
// text. The default implementation always returns true (no cmap access
// without the out-of-scope font loader); a real Provider's Font wrapper
// is expected to override this via its own coverage table.
func (f *Font) CoversText(text string) bool {
	return true
}
