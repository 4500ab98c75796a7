package templates

import "github.com/a-h/templ"

// HomeMetrics is the dashboard view model.
type HomeMetrics struct {
	HasData       bool
	TotalRequests int
	FiledThisYear int
	TotalAgencies int
	TotalSources  int
	AvgDays       string
	MinDays       string
	MaxDays       string
}

// Home renders the dashboard.
func Home(m HomeMetrics) templ.Component {
	return page("Dashboard", func(p *printer) {
		if !m.HasData {
			p.raw("<p>No requests on file yet. <a href=\"/requests/new\">File your first request</a>.</p>\n")
			return
		}
		p.raw("<table>\n")
		p.f("<tr><th>Requests filed</th><td>%d</td></tr>\n", m.TotalRequests)
		p.f("<tr><th>Filed this year</th><td>%d</td></tr>\n", m.FiledThisYear)
		p.f("<tr><th>Agencies</th><td>%d</td></tr>\n", m.TotalAgencies)
		p.f("<tr><th>Sources</th><td>%d</td></tr>\n", m.TotalSources)
		if m.AvgDays != "" {
			p.f("<tr><th>Average response time</th><td>%s days</td></tr>\n", esc(m.AvgDays))
			p.f("<tr><th>Fastest response</th><td>%s days</td></tr>\n", esc(m.MinDays))
			p.f("<tr><th>Slowest response</th><td>%s days</td></tr>\n", esc(m.MaxDays))
		}
		p.raw("</table>\n")
	})
}
