package templates

import (
	"github.com/a-h/templ"

	"github.com/acahn/sourcedesk/internal/model"
)

// Sources renders the source list.
func Sources(sources []model.Source) templ.Component {
	return page("Sources", func(p *printer) {
		p.raw("<table>\n<thead><tr><th>Name</th><th>Title</th><th>Type</th></tr></thead>\n<tbody>\n")
		for _, s := range sources {
			name := s.FullName()
			if name == "" {
				name = "Unknown"
			}
			p.f("<tr><td><a href=\"/sources/%d\">%s</a></td><td>%s</td><td>%s</td></tr>\n",
				s.ID, esc(name), esc(s.Title), esc(string(s.SourceType)))
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// SourceDetail renders one source and their interview log.
func SourceDetail(s model.Source, contacts []model.Contact) templ.Component {
	name := s.FullName()
	if name == "" {
		name = "Unknown source"
	}
	return page(name, func(p *printer) {
		p.raw("<table>\n")
		p.f("<tr><th>Title</th><td>%s</td></tr>\n", esc(s.Title))
		p.f("<tr><th>Email</th><td>%s</td></tr>\n", esc(s.Email.String))
		p.f("<tr><th>Phone</th><td>%s</td></tr>\n", esc(s.Phone.String))
		p.f("<tr><th>Notes</th><td>%s</td></tr>\n", esc(s.Notes))
		p.raw("</table>\n")
		p.raw("<h2>Contact log</h2>\n")
		if len(contacts) == 0 {
			p.raw("<p>No contacts recorded.</p>\n")
			return
		}
		p.raw("<table>\n<thead><tr><th>Time</th><th>Method</th><th>Answered</th><th>Ground rules</th><th>Notes</th></tr></thead>\n<tbody>\n")
		for _, c := range contacts {
			answered := "no"
			if c.Answered {
				answered = "yes"
			}
			p.f("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				c.Time.Format("2006-01-02 15:04"), esc(c.Method), answered, esc(c.GroundRules), esc(c.Description))
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// Projects renders the project list.
func Projects(projects []model.Project) templ.Component {
	return page("Projects", func(p *printer) {
		p.raw("<table>\n<thead><tr><th>Project</th><th>Launched</th><th>Status</th></tr></thead>\n<tbody>\n")
		for _, pr := range projects {
			status := "active"
			if pr.Completed {
				status = "completed"
			}
			p.f("<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				esc(pr.ShortDescription), pr.LaunchedAt.Format("2006-01-02"), status)
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// Stories renders the published story list.
func Stories(stories []model.Story) templ.Component {
	return page("Stories", func(p *printer) {
		p.raw("<table>\n<thead><tr><th>Headline</th><th>Publication</th><th>Published</th></tr></thead>\n<tbody>\n")
		for _, st := range stories {
			p.f("<tr><td><a href=\"%s\">%s</a></td><td>%s</td><td>%s</td></tr>\n",
				esc(st.Link), esc(st.Headline), esc(st.Publication), st.PublishedOn.Format("2006-01-02"))
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// TemplateUpload renders the template upload form, with an optional
// outcome message from the previous attempt.
func TemplateUpload(message string, failed bool) templ.Component {
	return page("Request Templates", func(p *printer) {
		if message != "" {
			class := "ok"
			if failed {
				class = "error"
			}
			p.f("<p class=\"%s\">%s</p>\n", class, esc(message))
		}
		p.raw(`<form method="post" action="/templates/upload" enctype="multipart/form-data">` + "\n")
		p.raw(`<p><label>Template file (.html)<br><input type="file" name="template" required></label></p>` + "\n")
		p.raw(`<p><label>Jurisdiction code (optional; blank for a global template)<br><input name="jurisdiction" maxlength="2"></label></p>` + "\n")
		p.raw("<p><button>Upload</button></p>\n</form>\n")
		p.raw("<p>Templates must contain a <code>{{ requested_records }}</code> placeholder.</p>\n")
	})
}
