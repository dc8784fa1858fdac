package http

import (
	"html/template"
	"strconv"

	"github.com/couchcryptid/quake-dashboard/internal/chart"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
)

// pageData is the template input for one response.
type pageData struct {
	Title    string
	Menu     []dashboard.MenuItem
	Sections []dashboard.Section
	HasMap   bool
	NotFound string
}

func newPageData(v *dashboard.View) pageData {
	return pageData{
		Title:    v.Page.Label,
		Menu:     v.Menu,
		Sections: v.Sections,
		HasMap:   len(v.Find(dashboard.KindMap)) > 0,
	}
}

func notFoundData(slug string) pageData {
	return pageData{
		Title:    "Page not found",
		Menu:     dashboard.Menu(""),
		NotFound: slug,
	}
}

var funcMap = template.FuncMap{
	// Chart documents are produced by the chart package, never from user input.
	"svg": func(s chart.SVG) template.HTML { return template.HTML(s) }, //nolint:gosec // trusted renderer output
	"coord": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 6, 64)
	},
}

var layout = template.Must(template.New("base").Funcs(funcMap).Parse(tmplBase + tmplSections))

// ── Base layout ───────────────────────────────────────────────────────────────

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}} · Earthquake Dashboard</title>
{{- if .HasMap}}
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
{{- end}}
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#fff;color:#262730;font-size:15px;line-height:1.5;display:flex;min-height:100vh}
a{color:#02ab21}
nav{background:#f8f9fa;width:240px;flex-shrink:0;padding:16px 8px;border-right:1px solid #e6e6e6}
nav .brand{font-weight:700;font-size:16px;padding:4px 12px 12px;display:block}
nav a{display:block;color:#262730;padding:8px 12px;border-radius:6px;text-decoration:none;margin-bottom:2px}
nav a:hover{background:#eee}
nav a.active{background:#02ab21;color:#fff}
main{flex:1;padding:24px 40px;max-width:1100px}
h1{font-size:28px;font-weight:700;margin:24px 0 12px}
h1:first-child{margin-top:0}
h2{font-size:22px;font-weight:600;margin:18px 0 10px}
h3{font-size:18px;font-weight:600;margin:14px 0 8px}
p{margin:8px 0}
.notice{padding:10px 14px;border-radius:6px;margin:10px 0}
.notice.info{background:#e8f1fb;color:#0b4f8a}
.notice.warning{background:#fff8e1;color:#8a6d00}
.notice.error{background:#fdecea;color:#8a1c12}
form.control{margin:10px 0;display:flex;gap:10px;align-items:center;flex-wrap:wrap}
form.control select,form.control input[type=range]{padding:4px 6px;font-size:14px}
form.control button{padding:4px 12px;border:1px solid #ccc;border-radius:4px;background:#fff;cursor:pointer}
.chart{margin:12px 0}
.chart svg{max-width:100%;height:auto}
table{border-collapse:collapse;font-size:13px;margin:10px 0}
th,td{padding:4px 10px;border:1px solid #e6e6e6;text-align:right}
th{background:#f8f9fa}
.map{width:700px;max-width:100%;height:500px;margin:12px 0}
</style>
</head>
<body>
<nav>
  <span class="brand">Navigation</span>
  {{- range .Menu}}
  <a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
  {{- end}}
</nav>
<main>
{{- if .NotFound}}
<h1>Page not found</h1>
<div class="notice error">There is no page named "{{.NotFound}}". Choose a page from the menu.</div>
{{- else}}
{{template "sections" .Sections}}
{{- end}}
</main>
{{- if .HasMap}}
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<script>
document.querySelectorAll('.map').forEach(function (el) {
  var map = L.map(el).setView([Number(el.dataset.lat), Number(el.dataset.lon)], Number(el.dataset.zoom));
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);
  var cluster = L.markerClusterGroup();
  fetch(el.dataset.markers).then(function (r) { return r.json(); }).then(function (fc) {
    fc.features.forEach(function (f) {
      var c = f.geometry.coordinates;
      L.circleMarker([c[1], c[0]], {
        radius: f.properties.radius, color: 'red', fill: true, fillOpacity: 0.6
      }).bindPopup(f.properties.popup).addTo(cluster);
    });
    map.addLayer(cluster);
  });
});
</script>
{{- end}}
</body>
</html>
{{end}}
`

// ── Page sections ─────────────────────────────────────────────────────────────

const tmplSections = `
{{define "sections"}}
{{- range .}}
{{- if eq .Kind "title"}}<h1>{{.Text}}</h1>
{{- else if eq .Kind "header"}}<h2>{{.Text}}</h2>
{{- else if eq .Kind "subheader"}}<h3>{{.Text}}</h3>
{{- else if eq .Kind "text"}}<p>{{.Text}}</p>
{{- else if eq .Kind "notice"}}<div class="notice {{.Level}}">{{.Text}}</div>
{{- else if eq .Kind "link"}}<p><a href="{{.Href}}">{{.Text}}</a></p>
{{- else if eq .Kind "chart"}}<div class="chart">{{svg .Chart}}</div>
{{- else if eq .Kind "map"}}<div class="map" data-lat="{{coord .Map.Lat}}" data-lon="{{coord .Map.Lon}}" data-zoom="{{.Map.Zoom}}" data-markers="{{.Map.MarkersURL}}"></div>
{{- else if eq .Kind "table"}}{{template "table" .Table}}
{{- else if eq .Kind "control"}}{{template "control" .Control}}
{{- end}}
{{- end}}
{{end}}

{{define "table"}}<table>
{{- if .Header}}<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>{{end}}
<tbody>
{{- $rh := .RowHeaders}}
{{- range .Rows}}<tr>{{range $i, $c := .}}{{if and $rh (eq $i 0)}}<th>{{$c}}</th>{{else}}<td>{{$c}}</td>{{end}}{{end}}</tr>
{{- end}}
</tbody></table>{{end}}

{{define "control"}}<form method="GET" action="/" class="control">
{{- range .Hidden}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">{{end}}
<label>{{.Label}}</label>
{{- if eq .Kind "select"}}
<select name="{{.Name}}" onchange="this.form.submit()">
{{- range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
</select>
<noscript><button type="submit">Apply</button></noscript>
{{- else if eq .Kind "radio"}}
{{- $name := .Name}}
{{- range .Options}}
<label><input type="radio" name="{{$name}}" value="{{.Value}}"{{if .Selected}} checked{{end}} onchange="this.form.submit()"> {{.Label}}</label>
{{- end}}
<noscript><button type="submit">Apply</button></noscript>
{{- else if eq .Kind "multiselect"}}
<select name="{{.Name}}" multiple size="6">
{{- range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
</select>
<button type="submit">Apply</button>
{{- else if eq .Kind "slider"}}
<input type="range" name="{{.Name}}" min="{{.Min}}" max="{{.Max}}" value="{{.Value}}" oninput="this.nextElementSibling.value=this.value">
<output>{{.Value}}</output>
<button type="submit">Apply</button>
{{- end}}
</form>{{end}}
`
