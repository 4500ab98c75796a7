package templates

import (
	"time"

	"github.com/a-h/templ"

	"github.com/acahn/sourcedesk/internal/model"
)

// RequestRow pairs a request item with its agency and computed due date
// for display. DueDate is nil when the jurisdiction defines no deadline.
type RequestRow struct {
	Item    model.RequestItem
	Agency  model.Agency
	DueDate *time.Time
}

// SendResult reports one per-agency outcome of a batch filing.
type SendResult struct {
	AgencyName string
	MessageID  string
	Err        string
}

func requestsTable(p *printer, contents []model.RequestContent) {
	p.raw("<tbody id=\"requests-body\">\n")
	for _, c := range contents {
		p.f("<tr><td><a href=\"/requests/%d\">%s</a></td><td>%s</td></tr>\n",
			c.ID, esc(c.Subject), c.FiledAt.Format("2006-01-02"))
	}
	p.raw("</tbody>\n")
}

// Requests renders the searchable request list.
func Requests(contents []model.RequestContent, q string) templ.Component {
	return page("Requests", func(p *printer) {
		p.f(`<form hx-get="/requests" hx-target="#requests-body" hx-swap="outerHTML"><input type="search" name="q" value="%s" placeholder="Search requests"> <button>Search</button></form>`+"\n", esc(q))
		p.raw("<table>\n<thead><tr><th>Subject</th><th>Filed</th></tr></thead>\n")
		requestsTable(p, contents)
		p.raw("</table>\n")
	})
}

// RequestsTableBody renders only the table body, for HTMX swaps.
func RequestsTableBody(contents []model.RequestContent) templ.Component {
	return fragment(func(p *printer) {
		requestsTable(p, contents)
	})
}

// statusOptions lists the statuses reachable from the current one.
func statusOptions(p *printer, current model.Status) {
	all := []model.Status{
		model.StatusAcknowledged, model.StatusClosedFulfilled,
		model.StatusClosedRedacted, model.StatusClosedExcessFee,
		model.StatusClosedDenied, model.StatusClosedNoRecords,
		model.StatusAppealed, model.StatusSued,
	}
	for _, st := range all {
		if model.CanTransition(current, st) {
			p.f("<option value=\"%s\">%s</option>\n", esc(string(st)), esc(st.Label()))
		}
	}
}

// RequestDetail renders one request body with its per-agency items.
func RequestDetail(content model.RequestContent, rows []RequestRow) templ.Component {
	return page(content.Subject, func(p *printer) {
		p.f("<p>Filed %s</p>\n", content.FiledAt.Format("2006-01-02 15:04 MST"))
		p.f("<blockquote>%s</blockquote>\n", esc(content.RequestedRecords))
		p.raw("<table>\n<thead><tr><th>Agency</th><th>Status</th><th>Response due</th><th>Update</th></tr></thead>\n<tbody>\n")
		for _, row := range rows {
			due := "unknown"
			if row.DueDate != nil {
				due = row.DueDate.Format("2006-01-02")
			}
			p.f("<tr><td><a href=\"/agencies/%d\">%s</a></td><td>%s</td><td>%s</td><td>",
				row.Agency.ID, esc(row.Agency.Name), esc(row.Item.Status.Label()), due)
			if !row.Item.Status.Terminal() {
				p.f(`<form method="post" action="/requests/items/%d/status"><select name="status">`, row.Item.ID)
				statusOptions(p, row.Item.Status)
				p.raw("</select> <button>Set</button></form>")
			}
			p.raw("</td></tr>\n")
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// NewRequest renders the batch filing form.
func NewRequest(agencies []model.Agency) templ.Component {
	return page("File Request", func(p *printer) {
		p.raw(`<form method="post" action="/requests/new">` + "\n")
		p.raw(`<p><label>Subject line<br><input name="subject" required></label></p>` + "\n")
		p.raw(`<p><label>Requested records<br><textarea name="requested_records" rows="8" required></textarea></label></p>` + "\n")
		p.raw(`<p><label>Expedited processing justification<br><textarea name="expedited_processing" rows="3"></textarea></label></p>` + "\n")
		p.raw(`<p><label>Fee waiver justification<br><textarea name="fee_waiver" rows="3"></textarea></label></p>` + "\n")
		p.raw(`<p><label>CC (comma separated)<br><input name="cc"></label></p>` + "\n")
		p.raw(`<p><label>BCC (comma separated)<br><input name="bcc"></label></p>` + "\n")
		p.raw("<p><label>Agencies</label></p>\n<p>\n")
		for _, a := range agencies {
			p.f(`<label><input type="checkbox" name="agency_id" value="%d"> %s</label><br>`+"\n", a.ID, esc(a.Name))
		}
		p.raw("</p>\n")
		p.raw(`<p><label>Records officer name (optional)<br><input name="recipient_name"></label></p>` + "\n")
		p.raw("<p><button>File request</button></p>\n</form>\n")
	})
}

// SendResults renders the per-agency outcome of a batch filing. Failures
// for later agencies do not undo earlier sends.
func SendResults(results []SendResult) templ.Component {
	return page("Filing Results", func(p *printer) {
		p.raw("<table>\n<thead><tr><th>Agency</th><th>Result</th></tr></thead>\n<tbody>\n")
		for _, r := range results {
			if r.Err != "" {
				p.f("<tr><td>%s</td><td class=\"error\">%s</td></tr>\n", esc(r.AgencyName), esc(r.Err))
			} else {
				p.f("<tr><td>%s</td><td class=\"ok\">sent (%s)</td></tr>\n", esc(r.AgencyName), esc(r.MessageID))
			}
		}
		p.raw("</tbody>\n</table>\n<p><a href=\"/requests\">Back to requests</a></p>\n")
	})
}
