package dashboard

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// ErrUnknownPage is returned by Render for a slug that is not in the menu.
var ErrUnknownPage = errors.New("unknown page")

// Page slugs in menu order.
const (
	PageTrends        = "trends"
	PageMap           = "map"
	PageRelationships = "relationships"
	PagePrediction    = "prediction"
)

// DefaultPage is selected when the request names no page.
const DefaultPage = PageTrends

// Page is a menu entry and its renderer.
type Page struct {
	Slug  string
	Label string

	heading func(d *Dashboard) string
	render  func(d *Dashboard, v *View, ds *domain.Dataset, q url.Values)
}

// Heading is the first title drawn on the page.
func (p Page) Heading(d *Dashboard) string { return p.heading(d) }

var pages = []Page{
	{
		Slug:    PageTrends,
		Label:   "Data Analysis",
		heading: fixed("Earthquake Trends Analysis"),
		render:  renderTrends,
	},
	{
		Slug:    PageMap,
		Label:   "Interactive Map",
		heading: fixed("Geographical Analysis of Earthquakes"),
		render:  renderMap,
	},
	{
		Slug:    PageRelationships,
		Label:   "Relationships",
		heading: fixed("Scattering: Magnitude versus depth of earthquakes"),
		render:  renderRelationships,
	},
	{
		Slug:  PagePrediction,
		Label: "Forecasting",
		heading: func(d *Dashboard) string {
			return fmt.Sprintf("Earthquake Prediction for %d–%d Using Machine Learning",
				d.opts.Forecast.FromYear, d.opts.Forecast.ToYear)
		},
		render: renderPrediction,
	},
}

func fixed(s string) func(*Dashboard) string {
	return func(*Dashboard) string { return s }
}

// Pages returns the menu pages in order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// Lookup finds a page by slug.
func Lookup(slug string) (Page, bool) {
	for _, p := range pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// PageURL is the address of a page with no widget values.
func PageURL(slug string) string {
	return "/?" + url.Values{"page": {slug}}.Encode()
}

// Menu lists the pages with current highlighted. An unknown current
// highlights nothing.
func Menu(current string) []MenuItem {
	items := make([]MenuItem, len(pages))
	for i, p := range pages {
		items[i] = MenuItem{
			Slug:   p.Slug,
			Label:  p.Label,
			Href:   PageURL(p.Slug),
			Active: p.Slug == current,
		}
	}
	return items
}
