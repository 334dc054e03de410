package state

import (
	"image"
	"slices"

	"LocalFlipbook/internal/config"
	"LocalFlipbook/internal/errors"
	"LocalFlipbook/internal/logging"
)

// Book is an ordered list of pages with one selected page. When shadows are
// visible the selected page shows the previous page as a translucent guide.
type Book struct {
	cfg     config.Canvas
	pages   []*Page
	current int
	shadows bool

	onChange func(*Page, Change)
}

// NewBook creates a book holding a single blank page.
func NewBook(cfg config.Canvas) (*Book, error) {
	b := &Book{cfg: cfg}
	p, err := b.newPage()
	if err != nil {
		return nil, err
	}
	b.pages = []*Page{p}
	return b, nil
}

func (b *Book) newPage() (*Page, error) {
	p, err := NewPage(b.cfg)
	if err != nil {
		return nil, err
	}
	p.OnChange = b.forward
	return p, nil
}

func (b *Book) forward(p *Page, c Change) {
	if b.onChange != nil {
		b.onChange(p, c)
	}
}

// OnChange registers fn to be called after any page mutation and after
// every change of the page list or selection.
func (b *Book) OnChange(fn func(*Page, Change)) { b.onChange = fn }

// Len returns the number of pages.
func (b *Book) Len() int { return len(b.pages) }

// Index returns the position of the selected page.
func (b *Book) Index() int { return b.current }

// Current returns the selected page.
func (b *Book) Current() *Page { return b.pages[b.current] }

// Page returns the page at i, or nil when i is out of range.
func (b *Book) Page(i int) *Page {
	if i < 0 || i >= len(b.pages) {
		return nil
	}
	return b.pages[i]
}

// Pages returns the pages in order.
func (b *Book) Pages() []*Page { return slices.Clone(b.pages) }

// AddPage inserts a blank page after the selected one and selects it.
func (b *Book) AddPage() (*Page, error) {
	p, err := b.newPage()
	if err != nil {
		return nil, err
	}
	b.insert(p)
	return p, nil
}

// DuplicatePage inserts a copy of the selected page after it and selects
// the copy. The copied image is the new page's undo floor.
func (b *Book) DuplicatePage() (*Page, error) {
	p, err := b.newPage()
	if err != nil {
		return nil, err
	}
	if err := p.ImportImage(b.Current().Snapshot(), ImportCopy); err != nil {
		return nil, err
	}
	p.CommitBaseline()
	b.insert(p)
	return p, nil
}

func (b *Book) insert(p *Page) {
	b.pages = slices.Insert(b.pages, b.current+1, p)
	logging.Logger().Debug("page added", "page", p.ID(), "index", b.current+1, "pages", len(b.pages))
	b.selectPage(b.current + 1)
}

// RemovePage deletes the selected page. The last remaining page cannot be
// removed.
func (b *Book) RemovePage() error {
	if len(b.pages) == 1 {
		return errors.Newf("state.RemovePage", errors.KindInvalidArgument, "cannot remove the only page")
	}
	removed := b.pages[b.current]
	removed.OnChange = nil
	b.pages = slices.Delete(b.pages, b.current, b.current+1)
	logging.Logger().Debug("page removed", "page", removed.ID(), "pages", len(b.pages))
	b.selectPage(min(b.current, len(b.pages)-1))
	return nil
}

// Select makes page i current.
func (b *Book) Select(i int) error {
	if i < 0 || i >= len(b.pages) {
		return errors.Newf("state.Select", errors.KindInvalidArgument, "page %d out of range [0,%d)", i, len(b.pages))
	}
	b.selectPage(i)
	return nil
}

// Next selects the following page. It reports false on the last page.
func (b *Book) Next() bool {
	if b.current+1 >= len(b.pages) {
		return false
	}
	b.selectPage(b.current + 1)
	return true
}

// Prev selects the preceding page. It reports false on the first page.
func (b *Book) Prev() bool {
	if b.current == 0 {
		return false
	}
	b.selectPage(b.current - 1)
	return true
}

// ShadowVisible reports whether the previous page is shown as a shadow.
func (b *Book) ShadowVisible() bool { return b.shadows }

// SetShadowVisible shows or hides the previous page's shadow on every page.
func (b *Book) SetShadowVisible(visible bool) {
	b.shadows = visible
	b.refreshShadow()
	b.forward(b.Current(), ChangeView)
}

func (b *Book) selectPage(i int) {
	b.current = i
	b.refreshShadow()
	b.forward(b.Current(), ChangeCommit)
}

// refreshShadow points the selected page's shadow at its predecessor.
func (b *Book) refreshShadow() {
	p := b.Current()
	// Silence the page while it is rewired; the book emits one event.
	fn := p.OnChange
	p.OnChange = nil
	defer func() { p.OnChange = fn }()

	p.SetShadowVisible(b.shadows)
	if !b.shadows || b.current == 0 {
		p.ClearShadowSource()
		return
	}
	prev := b.pages[b.current-1]
	if err := p.SetShadowSource(prev.Snapshot()); err != nil {
		logging.Logger().Warn("shadow derivation failed", "page", p.ID(), "error", err)
		p.ClearShadowSource()
	}
}

// Frames returns the committed image of every page, in order.
func (b *Book) Frames() []image.Image {
	frames := make([]image.Image, len(b.pages))
	for i, p := range b.pages {
		frames[i] = p.ExportCurrentImage()
	}
	return frames
}
