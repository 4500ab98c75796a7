package templates

import (
	"github.com/a-h/templ"

	"github.com/acahn/sourcedesk/internal/model"
)

// Agencies renders the agency list.
func Agencies(agencies []model.Agency) templ.Component {
	return page("Agencies", func(p *printer) {
		p.raw("<p><a href=\"/agencies/new\">Add agency</a></p>\n")
		p.raw("<table>\n<thead><tr><th>Name</th><th>Municipality</th><th>FOIA email</th><th>Federal</th></tr></thead>\n<tbody>\n")
		for _, a := range agencies {
			federal := ""
			if a.IsFederal {
				federal = "yes"
			}
			p.f("<tr><td><a href=\"/agencies/%d\">%s</a></td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				a.ID, esc(a.Name), esc(a.Municipality), esc(a.FoiaEmail.String), federal)
		}
		p.raw("</tbody>\n</table>\n")
	})
}

// AgencyDetail renders one agency with its jurisdiction rules.
func AgencyDetail(a model.Agency, jur *model.Jurisdiction) templ.Component {
	return page(a.Name, func(p *printer) {
		p.raw("<table>\n")
		p.f("<tr><th>Address</th><td>%s, %s %s</td></tr>\n", esc(a.StreetAddress), esc(a.Municipality), esc(a.ZipCode))
		p.f("<tr><th>FOIA email</th><td>%s</td></tr>\n", esc(a.FoiaEmail.String))
		if a.IsFederal {
			p.raw("<tr><th>Rules</th><td>Federal: Freedom of Information Act, 20 business days</td></tr>\n")
		} else if jur != nil {
			statute := "Public Records"
			if jur.StatuteName.Valid && jur.StatuteName.String != "" {
				statute = jur.StatuteName.String
			}
			if jur.MaxResponseDays.Valid && jur.BusinessDaysOnly.Valid {
				unit := "days"
				if jur.BusinessDaysOnly.Bool {
					unit = "business days"
				}
				p.f("<tr><th>Rules</th><td>%s (%s): %d %s</td></tr>\n", esc(statute), esc(jur.Code), jur.MaxResponseDays.Int64, unit)
			} else {
				p.f("<tr><th>Rules</th><td>%s (%s): no statutory deadline</td></tr>\n", esc(statute), esc(jur.Code))
			}
		} else {
			p.raw("<tr><th>Rules</th><td>No jurisdiction on file</td></tr>\n")
		}
		p.raw("</table>\n")
	})
}

// NewAgency renders the agency creation form.
func NewAgency(jurisdictions []model.Jurisdiction) templ.Component {
	return page("Add Agency", func(p *printer) {
		p.raw(`<form method="post" action="/agencies/new">` + "\n")
		p.raw(`<p><label>Name<br><input name="name" required></label></p>` + "\n")
		p.raw(`<p><label>Street address<br><input name="street_address"></label></p>` + "\n")
		p.raw(`<p><label>Municipality<br><input name="municipality"></label></p>` + "\n")
		p.raw(`<p><label>ZIP<br><input name="zip_code" pattern="[0-9]{5}(-[0-9]{4})?"></label></p>` + "\n")
		p.raw(`<p><label>FOIA email<br><input type="email" name="foia_email"></label></p>` + "\n")
		p.raw(`<p><label><input type="checkbox" name="is_federal" value="true"> Federal agency</label></p>` + "\n")
		p.raw(`<p><label>Jurisdiction<br><select name="jurisdiction_id"><option value="">(none)</option>` + "\n")
		for _, j := range jurisdictions {
			p.f("<option value=\"%d\">%s</option>\n", j.ID, esc(j.Code))
		}
		p.raw("</select></label></p>\n")
		p.raw("<p><button>Create</button></p>\n</form>\n")
	})
}
