package extract

import (
	"fmt"
	"math"
	"os"

	"github.com/ledongthuc/pdf"
)

const (
	// defaultFontSize stands in for glyph height when the font size is unknown.
	defaultFontSize = 12.0
	// defaultPageTop is the upper edge of a US Letter media box.
	defaultPageTop = 792.0
	// maxFormDepth bounds recursion into nested form XObjects.
	maxFormDepth = 8
)

// PDFDocument reads page layout with ledongthuc/pdf.
type PDFDocument struct {
	path   string
	file   *os.File
	reader *pdf.Reader
}

// OpenDocument opens a PDF file for layout extraction.
func OpenDocument(path string) (*PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}
	return &PDFDocument{path: path, file: f, reader: r}, nil
}

// NumPages returns the number of pages.
func (d *PDFDocument) NumPages() int {
	return d.reader.NumPage()
}

// Close releases the underlying file.
func (d *PDFDocument) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// Page extracts glyphs and highlight rectangles of page n.
// The PDF library panics on some malformed streams; those panics surface as errors.
func (d *PDFDocument) Page(n int) (page Page, err error) {
	if n < 1 || n > d.reader.NumPage() {
		return Page{}, fmt.Errorf("%s: invalid page number %d (document has %d pages)", d.path, n, d.reader.NumPage())
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: page %d: malformed content: %v", d.path, n, r)
		}
	}()

	p := d.reader.Page(n)
	page = Page{Number: n}
	if p.V.IsNull() {
		return page, nil
	}

	top := pageTop(p.V)
	for _, t := range p.Content().Text {
		size := t.FontSize
		if size == 0 {
			size = defaultFontSize
		}
		page.Glyphs = append(page.Glyphs, Glyph{
			Text: t.S,
			Box: Box{
				X0:     t.X,
				Top:    top - (t.Y + size),
				X1:     t.X + t.W,
				Bottom: top - t.Y,
			},
		})
	}

	page.Highlights = append(page.Highlights, paintedHighlights(p, top)...)
	page.Highlights = append(page.Highlights, annotationHighlights(p.V, top)...)
	return page, nil
}

// pageTop returns the upper edge of the (possibly inherited) media box.
func pageTop(v pdf.Value) float64 {
	for i := 0; i < 32 && !v.IsNull(); i++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			return math.Max(box.Index(1).Float64(), box.Index(3).Float64())
		}
		v = v.Key("Parent")
	}
	return defaultPageTop
}

// annotationHighlights collects Highlight and Square annotations drawn in marker colors.
func annotationHighlights(page pdf.Value, top float64) []Highlight {
	annots := page.Key("Annots")
	if annots.Kind() != pdf.Array {
		return nil
	}

	var out []Highlight
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		subtype := annot.Key("Subtype").Name()
		if subtype != "Highlight" && subtype != "Square" {
			continue
		}
		color := numbers(annot.Key("C"))
		if interior := numbers(annot.Key("IC")); subtype == "Square" && len(interior) > 0 {
			color = interior
		}
		class := Classify(color)
		if class == ColorNone {
			continue
		}
		rect := numbers(annot.Key("Rect"))
		if len(rect) != 4 {
			continue
		}
		out = append(out, Highlight{
			Box: Box{
				X0:     math.Min(rect[0], rect[2]),
				Top:    top - math.Max(rect[1], rect[3]),
				X1:     math.Max(rect[0], rect[2]),
				Bottom: top - math.Min(rect[1], rect[3]),
			},
			Class: class,
		})
	}
	return out
}

// numbers reads an array of numbers; non-numeric entries are skipped.
func numbers(v pdf.Value) []float64 {
	if v.Kind() != pdf.Array {
		return nil
	}
	out := make([]float64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == pdf.Integer || item.Kind() == pdf.Real {
			out = append(out, item.Float64())
		}
	}
	return out
}

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// then returns m applied before n.
func (m matrix) then(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

type graphicsState struct {
	ctm    matrix
	fill   []float64
	stroke []float64
}

// rectScanner interprets a content stream far enough to see which rectangles
// get painted and in which color.
type rectScanner struct {
	top       float64
	resources pdf.Value
	depth     int

	gs    graphicsState
	saved []graphicsState
	path  []Box
	found []Highlight
}

func paintedHighlights(p pdf.Page, top float64) []Highlight {
	s := &rectScanner{top: top, resources: p.Resources(), gs: graphicsState{ctm: identity}}
	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), s.do)
		}
	} else if !contents.IsNull() {
		pdf.Interpret(contents, s.do)
	}
	return s.found
}

func (s *rectScanner) do(stk *pdf.Stack, op string) {
	n := stk.Len()
	args := make([]pdf.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = stk.Pop()
	}

	switch op {
	case "q":
		s.saved = append(s.saved, s.gs)
	case "Q":
		if k := len(s.saved); k > 0 {
			s.gs = s.saved[k-1]
			s.saved = s.saved[:k-1]
		}
	case "cm":
		if m, ok := toMatrix(args); ok {
			s.gs.ctm = m.then(s.gs.ctm)
		}
	case "g", "rg", "k", "sc", "scn":
		if c := operands(args); len(c) > 0 {
			s.gs.fill = c
		}
	case "G", "RG", "K", "SC", "SCN":
		if c := operands(args); len(c) > 0 {
			s.gs.stroke = c
		}
	case "cs":
		s.gs.fill = nil
	case "CS":
		s.gs.stroke = nil
	case "re":
		if v := operands(args); len(v) == 4 {
			s.path = append(s.path, s.rectBox(v[0], v[1], v[2], v[3]))
		}
	case "f", "F", "f*":
		s.paint(s.gs.fill)
	case "B", "B*", "b", "b*":
		s.paint(s.gs.fill, s.gs.stroke)
	case "S", "s":
		s.paint(s.gs.stroke)
	case "n":
		s.path = nil
	case "Do":
		if len(args) == 1 {
			s.form(args[0].Name())
		}
	}
}

func (s *rectScanner) rectBox(x, y, w, h float64) Box {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, pt := range [][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		px, py := s.gs.ctm.apply(pt[0], pt[1])
		xs = append(xs, px)
		ys = append(ys, py)
	}
	minX, maxX := minMax(xs)
	minY, maxY := minMax(ys)
	return Box{X0: minX, Top: s.top - maxY, X1: maxX, Bottom: s.top - minY}
}

// paint closes the current path; the first color that reads as marker ink wins.
func (s *rectScanner) paint(colors ...[]float64) {
	defer func() { s.path = nil }()
	class := ColorNone
	for _, c := range colors {
		if class = Classify(c); class != ColorNone {
			break
		}
	}
	if class == ColorNone {
		return
	}
	for _, box := range s.path {
		s.found = append(s.found, Highlight{Box: box, Class: class})
	}
}

// form descends into a form XObject with its own matrix applied.
func (s *rectScanner) form(name string) {
	if s.depth >= maxFormDepth || name == "" {
		return
	}
	xobj := s.resources.Key("XObject").Key(name)
	if xobj.Key("Subtype").Name() != "Form" {
		return
	}

	saved := s.gs
	savedStack := s.saved
	if m, ok := toMatrix(arrayValues(xobj.Key("Matrix"))); ok {
		s.gs.ctm = m.then(s.gs.ctm)
	}
	s.depth++
	pdf.Interpret(xobj, s.do)
	s.depth--
	s.gs = saved
	s.saved = savedStack
	s.path = nil
}

func arrayValues(v pdf.Value) []pdf.Value {
	if v.Kind() != pdf.Array {
		return nil
	}
	out := make([]pdf.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

// operands returns the numeric operands; pattern names and the like are dropped.
func operands(args []pdf.Value) []float64 {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		if a.Kind() == pdf.Integer || a.Kind() == pdf.Real {
			out = append(out, a.Float64())
		}
	}
	return out
}

func toMatrix(args []pdf.Value) (matrix, bool) {
	v := operands(args)
	if len(v) != 6 {
		return matrix{}, false
	}
	return matrix{v[0], v[1], v[2], v[3], v[4], v[5]}, true
}

func minMax(v []float64) (float64, float64) {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
