package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"fixmate/internal/models"
)

var funcs = template.FuncMap{
	"money": FormatCents,
	"deref": func(s *string) string {
		if s == nil || *s == "" {
			return "-"
		}
		return *s
	},
	"lines": func(s *string) []string {
		if s == nil || *s == "" {
			return []string{"-"}
		}
		return strings.Split(*s, "\n")
	},
}

var ownerLeadTmpl = template.Must(template.New("owner_lead").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.5;">
  <h2>New Lead Received</h2>
  <p><strong>Type:</strong> {{.Type}}</p>
  <p><strong>Name:</strong> {{.FullName}}</p>
  <p><strong>Email:</strong> {{deref .Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  <p><strong>Device:</strong> {{.Device}}</p>
  <p><strong>Issue:</strong> {{.Issue}}</p>
  <p><strong>Estimate:</strong> {{.Estimate}}</p>
  <p><strong>Preferred Date:</strong> {{.PreferredDate}}</p>
  <p><strong>Preferred Time:</strong> {{deref .PreferredTime}}</p>
  <p><strong>Message:</strong><br/>{{range $i, $l := lines .Message}}{{if $i}}<br/>{{end}}{{$l}}{{end}}</p>
  <hr/>
  <p style="color:#666;">Lead ID: {{.ID}}</p>
</div>`))

var customerConfirmTmpl = template.Must(template.New("customer_confirm").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>Thanks{{if .FullName}}, {{.FullName}}{{end}}!</h2>
  <p>We've received your repair request and will contact you shortly.</p>
  <div style="border:1px solid #eee; padding:14px; border-radius:10px;">
    <p style="margin:0 0 8px;"><strong>Your request</strong></p>
    <p style="margin:0;"><strong>Device:</strong> {{.Device}}</p>
    <p style="margin:0;"><strong>Issue:</strong> {{.Issue}}</p>
    <p style="margin:0;"><strong>Estimate:</strong> {{.Estimate}}</p>
    {{if .HasPreference}}<p style="margin:0;"><strong>Preferred time:</strong> {{.PreferredDate}} {{deref .PreferredTime}}</p>{{end}}
  </div>
  <p style="margin-top:16px;">If you need to add more details, reply to this email or call us.</p>
  {{if .SiteURL}}<p><a href="{{.SiteURL}}">Visit our website</a></p>{{end}}
  <p style="color:#666; font-size: 12px; margin-top: 18px;">This is an automated confirmation.</p>
</div>`))

var finalQuoteTmpl = template.Must(template.New("final_quote").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>Your repair quote{{if .FullName}}, {{.FullName}}{{end}}</h2>
  <p><strong>Device:</strong> {{.Device}}</p>
  <p><strong>Issue:</strong> {{.Issue}}</p>
  <p style="font-size: 18px;"><strong>Final quote:</strong> {{money .FinalQuote}}</p>
  {{if .QuoteNotes}}<p><strong>Notes:</strong><br/>{{range $i, $l := lines .QuoteNotes}}{{if $i}}<br/>{{end}}{{$l}}{{end}}</p>{{end}}
  <p>Reply to this email or call us to book the repair.</p>
  {{if .SiteURL}}<p><a href="{{.SiteURL}}">Visit our website</a></p>{{end}}
</div>`))

type leadView struct {
	models.Lead
	Device        string
	Estimate      string
	PreferredDate string
	HasPreference bool
	SiteURL       string
}

func newLeadView(lead models.Lead, siteURL string) leadView {
	device := lead.Model
	if lead.Brand != nil && *lead.Brand != "" {
		device = *lead.Brand + " " + lead.Model
	}

	estimate := "-"
	if lead.EstimatedPrice != nil {
		estimate = FormatCents(*lead.EstimatedPrice)
	}

	date := "-"
	if lead.PreferredDate != nil {
		date = time.Time(*lead.PreferredDate).Format("02 Jan 2006")
	}

	return leadView{
		Lead:          lead,
		Device:        device,
		Estimate:      estimate,
		PreferredDate: date,
		HasPreference: lead.PreferredDate != nil || (lead.PreferredTime != nil && *lead.PreferredTime != ""),
		SiteURL:       siteURL,
	}
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// FormatCents renders an amount in cents as dollars, e.g. 15900 -> "$159.00".
func FormatCents(cents any) string {
	var v int64
	switch c := cents.(type) {
	case int64:
		v = c
	case *int64:
		if c == nil {
			return "-"
		}
		v = *c
	default:
		return "-"
	}
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
