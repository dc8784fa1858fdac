package dashboard

import (
	"net/url"
	"slices"

	"github.com/couchcryptid/quake-dashboard/internal/chart"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind tags the content of a section.
type Kind string

const (
	KindTitle     Kind = "title"
	KindHeader    Kind = "header"
	KindSubheader Kind = "subheader"
	KindText      Kind = "text"
	KindNotice    Kind = "notice"
	KindControl   Kind = "control"
	KindChart     Kind = "chart"
	KindTable     Kind = "table"
	KindMap       Kind = "map"
	KindLink      Kind = "link"
)

// Section is one block of a rendered page. Only the fields matching Kind are set.
type Section struct {
	Kind    Kind
	Text    string
	Level   Level
	Href    string
	Control *Control
	Chart   chart.SVG
	Table   *Table
	Map     *MapView
}

// ControlKind selects the widget drawn for a control.
type ControlKind string

const (
	ControlSelect      ControlKind = "select"
	ControlRadio       ControlKind = "radio"
	ControlMultiSelect ControlKind = "multiselect"
	ControlSlider      ControlKind = "slider"
)

// Control is a widget submitted as a GET form. Hidden carries the page and
// every other current widget value so submitting one widget keeps the rest.
type Control struct {
	Kind    ControlKind
	Name    string
	Label   string
	Options []Option
	Min     int
	Max     int
	Value   int
	Hidden  []Field
}

// Option is one choice of a select, radio or multiselect control.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field is a hidden form field.
type Field struct {
	Name  string
	Value string
}

// Table is a grid of preformatted cells. With RowHeaders the first cell of
// each row is drawn as a header.
type Table struct {
	Header     []string
	Rows       [][]string
	RowHeaders bool
}

// MapView is an interactive marker map centred on Lat/Lon.
type MapView struct {
	Lat        float64
	Lon        float64
	Zoom       int
	MarkersURL string
}

// MenuItem is one entry of the navigation menu.
type MenuItem struct {
	Slug   string
	Label  string
	Href   string
	Active bool
}

// View is a fully rendered page.
type View struct {
	Page     Page
	Menu     []MenuItem
	Params   url.Values
	Sections []Section
}

func newView(p Page, params url.Values) *View {
	return &View{Page: p, Menu: Menu(p.Slug), Params: params}
}

func (v *View) add(s Section)         { v.Sections = append(v.Sections, s) }
func (v *View) title(text string)     { v.add(Section{Kind: KindTitle, Text: text}) }
func (v *View) header(text string)    { v.add(Section{Kind: KindHeader, Text: text}) }
func (v *View) subheader(text string) { v.add(Section{Kind: KindSubheader, Text: text}) }
func (v *View) text(text string)      { v.add(Section{Kind: KindText, Text: text}) }
func (v *View) table(t *Table)        { v.add(Section{Kind: KindTable, Table: t}) }
func (v *View) control(c *Control)    { v.add(Section{Kind: KindControl, Control: c}) }
func (v *View) mapView(m *MapView)    { v.add(Section{Kind: KindMap, Map: m}) }
func (v *View) chart(svg chart.SVG)   { v.add(Section{Kind: KindChart, Chart: svg}) }

func (v *View) link(text, href string) {
	v.add(Section{Kind: KindLink, Text: text, Href: href})
}

func (v *View) notice(level Level, text string) {
	v.add(Section{Kind: KindNotice, Level: level, Text: text})
}

func (v *View) info(text string)    { v.notice(LevelInfo, text) }
func (v *View) warning(text string) { v.notice(LevelWarning, text) }
func (v *View) fail(text string)    { v.notice(LevelError, text) }

// Sections of a kind, in page order.
func (v *View) Find(kind Kind) []Section {
	var out []Section
	for _, s := range v.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// Notices returns the texts of the notices at level.
func (v *View) Notices(level Level) []string {
	var out []string
	for _, s := range v.Find(KindNotice) {
		if s.Level == level {
			out = append(out, s.Text)
		}
	}
	return out
}

// Texts returns the text of every title, header, subheader and text section.
func (v *View) Texts() []string {
	var out []string
	for _, s := range v.Sections {
		switch s.Kind {
		case KindTitle, KindHeader, KindSubheader, KindText:
			out = append(out, s.Text)
		}
	}
	return out
}

// HasText reports whether any heading or text section equals text.
func (v *View) HasText(text string) bool {
	return slices.Contains(v.Texts(), text)
}

// Failed reports whether the page shows an error notice.
func (v *View) Failed() bool {
	return len(v.Notices(LevelError)) > 0
}
