package portal

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperifyio/courseport/internal/content"
	"github.com/hyperifyio/courseport/internal/pipeline"
)

// Item is the view model for one card on the portal page.
type Item struct {
	Title       string
	Type        content.MediaType
	Thumbnail   string
	Duration    string
	DownloadURL string
	Qualities   []content.Quality
}

// ItemFromArtifact maps a pipeline result onto the page view model. The card
// links to the local artifact file the pipeline produced.
func ItemFromArtifact(a pipeline.Artifact) Item {
	d := a.Descriptor
	duration := d.DurationDisplay
	if duration == "" {
		duration = "N/A"
	}
	return Item{
		Title:       d.Title,
		Type:        d.MediaType,
		Thumbnail:   d.ThumbnailURL,
		Duration:    duration,
		DownloadURL: a.Path,
		Qualities:   d.Qualities,
	}
}

// Renderer writes timestamped portal pages into OutDir.
type Renderer struct {
	OutDir string
	// Now overrides the clock, mainly for tests. Nil means time.Now.
	Now func() time.Time
}

type pageData struct {
	Title     string
	Items     []Item
	Timestamp string
}

// Render produces a self-contained static page listing every item, with a
// client-side search box and a quality selector per video. Returns the
// written file path.
func (r *Renderer) Render(title string, items []Item) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	t := now()

	outDir := r.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("portal dir: %w", err)
	}
	out := filepath.Join(outDir, fmt.Sprintf("course_portal_%d.html", t.Unix()))

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create portal: %w", err)
	}
	data := pageData{
		Title:     title,
		Items:     items,
		Timestamp: t.Format("2006-01-02 15:04:05"),
	}
	if err := pageTemplate.Execute(f, data); err != nil {
		f.Close()
		_ = os.Remove(out)
		return "", fmt.Errorf("render portal: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return out, nil
}

var pageTemplate = template.Must(template.New("portal").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Course Portal - {{.Title}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; margin: 0; background: #f5f5f5; color: #333; }
.container { max-width: 1200px; margin: 0 auto; padding: 20px; }
header { background: linear-gradient(135deg, #6e48aa 0%, #9d50bb 100%); color: white; padding: 20px 0; text-align: center; margin-bottom: 30px; }
.search-box { margin: 20px 0; text-align: center; }
#searchInput { padding: 10px 15px; width: 70%; border: 1px solid #ddd; border-radius: 25px; font-size: 16px; }
.content-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(300px, 1fr)); gap: 20px; }
.content-card { background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 5px rgba(0,0,0,0.1); }
.card-image img { width: 100%; height: 180px; object-fit: cover; }
.card-body { padding: 15px; }
.card-meta { font-size: 0.9em; color: #666; margin-bottom: 15px; }
.download-btn { display: inline-block; background: #6e48aa; color: white; padding: 8px 15px; text-decoration: none; border-radius: 4px; font-weight: bold; }
.no-results { text-align: center; grid-column: 1 / -1; padding: 40px; color: #666; }
footer { text-align: center; margin-top: 40px; padding: 20px; color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<header><div class="container"><h1>{{.Title}}</h1><p>Access all your course materials in one place</p></div></header>
<div class="container">
<div class="search-box"><input type="text" id="searchInput" placeholder="Search for videos, PDFs..." onkeyup="searchContent()"></div>
<div class="content-grid" id="contentGrid">
{{range $i, $item := .Items}}
<div class="content-card" data-title="{{$item.Title}}" data-type="{{$item.Type}}">
<div class="card-image"><img src="{{if $item.Thumbnail}}{{$item.Thumbnail}}{{else}}https://via.placeholder.com/300x180?text=No+Thumbnail{{end}}" alt="{{$item.Title}}"></div>
<div class="card-body">
<h3 class="card-title">{{$item.Title}}</h3>
<div class="card-meta"><span>{{$item.Type}}</span> &bull; <span>{{$item.Duration}}</span></div>
{{if $item.Qualities}}
<div class="quality-selector"><select id="quality-{{$i}}">
{{range $item.Qualities}}<option value="{{.URL}}">{{.Label}} ({{.SizeDisplay}})</option>
{{end}}</select></div>
{{end}}
<a href="{{$item.DownloadURL}}" class="download-btn" download>Download {{$item.Type}}</a>
</div>
</div>
{{else}}
<div class="no-results"><p>No content available yet. Please check back later.</p></div>
{{end}}
</div>
</div>
<footer><div class="container"><p>Generated by courseport &bull; {{.Timestamp}}</p></div></footer>
<script>
function searchContent() {
  const filter = document.getElementById('searchInput').value.toLowerCase();
  const cards = document.getElementById('contentGrid').getElementsByClassName('content-card');
  for (let i = 0; i < cards.length; i++) {
    const title = cards[i].getAttribute('data-title').toLowerCase();
    const type = cards[i].getAttribute('data-type');
    cards[i].style.display = (title.includes(filter) || type.includes(filter)) ? "" : "none";
  }
}
</script>
</body>
</html>
`))
