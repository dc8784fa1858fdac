package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Page-view outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// PageView records one dashboard page render.
type PageView struct {
	ID         string              `json:"id"`
	Page       string              `json:"page"`
	Params     map[string][]string `json:"params,omitempty"`
	RenderedAt time.Time           `json:"rendered_at"`
	DurationMS float64             `json:"duration_ms"`
	Outcome    string              `json:"outcome"`
}

// NewPageView stamps a page view with a random id and the current clock time.
// The page parameter itself is not repeated in Params.
func NewPageView(page string, params url.Values, took time.Duration, outcome string) PageView {
	var p map[string][]string
	for k, v := range params {
		if k == "page" {
			continue
		}
		if p == nil {
			p = make(map[string][]string, len(params))
		}
		p[k] = append([]string(nil), v...)
	}
	return PageView{
		ID:         uuid.NewString(),
		Page:       page,
		Params:     p,
		RenderedAt: clock.Now().UTC(),
		DurationMS: float64(took.Microseconds()) / 1000,
		Outcome:    outcome,
	}
}
