package dashboard

import (
	"net/url"

	"github.com/couchcryptid/quake-dashboard/internal/analysis"
	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func renderRelationships(d *Dashboard, v *View, ds *domain.Dataset, _ url.Values) {
	svg, err := chart.DepthMagnitude(analysis.DepthMagnitude(ds.Records))
	d.addChart(v, svg, err)

	v.title("Tsunami vs Depth and Magnitude")
	none, tsunami := analysis.TsunamiSplit(ds.Records)
	svg, err = chart.TsunamiScatter(none, tsunami)
	d.addChart(v, svg, err)
}
