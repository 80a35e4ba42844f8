package extract

// Page holds the layout of one page: positioned glyphs and marker rectangles.
type Page struct {
	Number     int
	Glyphs     []Glyph
	Highlights []Highlight
}

// Document is a paged source of layout information.
type Document interface {
	NumPages() int
	// Page returns the 1-based page n.
	Page(n int) (Page, error)
	Close() error
}
