package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/soldertec/site/internal/pkg/i18n"
)

const layoutTpl = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta http-equiv="Content-Type" content="text/html; charset=UTF-8" /><title>{{.Subject}}</title></head>
<body style="background-color:#f4f4f5;margin:0;padding:24px;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:600px;background:#fff;border-radius:8px;border-top:4px solid #f97316;margin:0 auto">
    <tbody>
      <tr><td style="padding:24px 32px 0"><a href="{{.SiteURL}}" style="font-size:20px;font-weight:700;color:#111827;text-decoration:none">{{.Company}}</a></td></tr>
      <tr><td style="padding:8px 32px 24px;color:#111827;font-size:14px;line-height:24px">{{.Body}}</td></tr>
      <tr><td style="padding:16px 32px;border-top:1px solid #e5e7eb;color:#9ca3af;font-size:11px;line-height:18px;text-align:center">
        {{.Footer}}<br />&copy;{{.Year}} {{.Company}}
        {{if .UnsubscribeURL}}<br /><a href="{{.UnsubscribeURL}}" style="color:#9ca3af">{{.UnsubscribeLabel}}</a>{{end}}
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const buttonTpl = `{{define "button"}}<table role="presentation" border="0" cellpadding="0" cellspacing="0" style="margin:24px 0"><tbody><tr><td><a href="{{.URL}}" target="_blank" style="display:inline-block;padding:12px 20px;background:#f97316;border-radius:4px;color:#fff;font-size:13px;font-weight:600;text-decoration:none">{{.Label}}</a></td></tr></tbody></table>{{end}}`

const rowsTpl = `{{define "rows"}}<table role="presentation" width="100%" border="0" cellpadding="0" cellspacing="0" style="background:#f3f4f6;border-radius:8px;padding:8px 16px">
<tbody>{{range .}}<tr><td style="padding:4px 0;width:35%;color:#6b7280;vertical-align:top">{{.Label}}</td><td style="padding:4px 0;white-space:pre-wrap">{{.Value}}</td></tr>{{end}}</tbody></table>{{end}}`

var bodyTemplates = map[string]string{
	"contact-internal": `<h1 style="font-size:18px">{{.Heading}}</h1>{{template "rows" .Rows}}`,
	"contact-client": `<h1 style="font-size:18px">{{.Heading}}</h1><p>{{.Text}}</p><p style="color:#6b7280">{{.Summary}}</p>{{template "rows" .Rows}}`,
	"newsletter-confirm": `<h1 style="font-size:18px">{{.Heading}}</h1><p>{{.Text}}</p>{{template "button" .Button}}<p style="color:#6b7280;font-size:12px">{{.Note}}</p>`,
	"newsletter-welcome": `<h1 style="font-size:18px">{{.Heading}}</h1><p>{{.Text}}</p>{{template "button" .Button}}`,
	"blog-notification": `<p>{{.Text}}</p>{{if .Image}}<img src="{{.Image}}" alt="" width="536" style="display:block;max-width:100%;border-radius:8px" />{{end}}<h1 style="font-size:20px">{{.Heading}}</h1>{{if .Summary}}<p>{{.Summary}}</p>{{end}}{{template "button" .Button}}`,
	"catalog-download": `<p>{{.Text}}</p>{{template "button" .Button}}<p style="color:#6b7280;font-size:12px">{{.Note}}</p>`,
}

var (
	layout *template.Template
	bodies = map[string]*template.Template{}
)

func init() {
	layout = template.Must(template.New("layout").Parse(layoutTpl))
	for name, src := range bodyTemplates {
		bodies[name] = template.Must(template.New(name).Parse(buttonTpl + rowsTpl + src))
	}
}

// Row is one label/value line of a summary table.
type Row struct {
	Label string
	Value string
}

type button struct {
	URL   string
	Label string
}

type bodyData struct {
	Heading string
	Text    string
	Summary string
	Note    string
	Image   string
	Rows    []Row
	Button  button
}

type layoutData struct {
	Lang             i18n.Lang
	Subject          string
	SiteURL          string
	Company          string
	Body             template.HTML
	Footer           string
	Year             int
	UnsubscribeURL   string
	UnsubscribeLabel string
}

// Renderer builds localized messages. It fills Subject, HTML and Tag; the
// caller sets recipients.
type Renderer struct {
	siteURL string
	company string
	now     func() time.Time
}

func NewRenderer(siteURL, company string) *Renderer {
	return &Renderer{siteURL: siteURL, company: company, now: time.Now}
}

func (r *Renderer) render(lang i18n.Lang, tag, subject, unsubscribeURL string, data bodyData) (Message, error) {
	var body bytes.Buffer
	if err := bodies[tag].Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render %s body: %w", tag, err)
	}
	var page bytes.Buffer
	err := layout.Execute(&page, layoutData{
		Lang:             lang,
		Subject:          subject,
		SiteURL:          r.siteURL,
		Company:          r.company,
		Body:             template.HTML(body.String()),
		Footer:           i18n.T(lang, i18n.MsgEmailFooter),
		Year:             r.now().Year(),
		UnsubscribeURL:   unsubscribeURL,
		UnsubscribeLabel: i18n.T(lang, i18n.MsgEmailUnsubscribeLink),
	})
	if err != nil {
		return Message{}, fmt.Errorf("render %s layout: %w", tag, err)
	}
	return Message{Subject: subject, HTML: page.String(), Tag: tag}, nil
}

// Contact holds a contact form submission for both contact emails.
type Contact struct {
	Name         string
	Email        string
	Phone        string
	State        string
	Municipality string
	Company      string
	Position     string
	Industry     string
	Message      string
	Language     i18n.Lang
}

func (c Contact) rows(lang i18n.Lang, withLanguage bool) []Row {
	fields := []struct {
		id    i18n.MsgID
		value string
	}{
		{i18n.MsgFieldName, c.Name},
		{i18n.MsgFieldEmail, c.Email},
		{i18n.MsgFieldPhone, c.Phone},
		{i18n.MsgFieldCompany, c.Company},
		{i18n.MsgFieldPosition, c.Position},
		{i18n.MsgFieldIndustry, c.Industry},
		{i18n.MsgFieldState, c.State},
		{i18n.MsgFieldMunicipality, c.Municipality},
		{i18n.MsgFieldMessage, c.Message},
	}
	rows := make([]Row, 0, len(fields)+1)
	for _, f := range fields {
		if f.value != "" {
			rows = append(rows, Row{Label: i18n.T(lang, f.id), Value: f.value})
		}
	}
	if withLanguage {
		rows = append(rows, Row{Label: i18n.T(lang, i18n.MsgFieldLanguage), Value: c.Language.String()})
	}
	return rows
}

// ContactInternal is the notification for the sales inbox. It is always
// written in the default language.
func (r *Renderer) ContactInternal(c Contact) (Message, error) {
	lang := i18n.Default
	return r.render(lang, "contact-internal", i18n.Tf(lang, i18n.MsgEmailContactInternalSubject, c.Name), "", bodyData{
		Heading: i18n.T(lang, i18n.MsgEmailContactInternalHeading),
		Rows:    c.rows(lang, true),
	})
}

// ContactClient is the acknowledgement sent to the submitter.
func (r *Renderer) ContactClient(c Contact) (Message, error) {
	lang := c.Language
	return r.render(lang, "contact-client", i18n.T(lang, i18n.MsgEmailContactClientSubject), "", bodyData{
		Heading: i18n.Tf(lang, i18n.MsgEmailContactClientHeading, c.Name),
		Text:    i18n.T(lang, i18n.MsgEmailContactClientBody),
		Summary: i18n.T(lang, i18n.MsgEmailContactClientSummary),
		Rows:    c.rows(lang, false),
	})
}

func (r *Renderer) NewsletterConfirm(lang i18n.Lang, confirmURL string) (Message, error) {
	return r.render(lang, "newsletter-confirm", i18n.T(lang, i18n.MsgEmailConfirmSubject), "", bodyData{
		Heading: i18n.T(lang, i18n.MsgEmailConfirmHeading),
		Text:    i18n.T(lang, i18n.MsgEmailConfirmBody),
		Note:    i18n.T(lang, i18n.MsgEmailConfirmIgnore),
		Button:  button{URL: confirmURL, Label: i18n.T(lang, i18n.MsgEmailConfirmButton)},
	})
}

func (r *Renderer) NewsletterWelcome(lang i18n.Lang, unsubscribeURL string) (Message, error) {
	return r.render(lang, "newsletter-welcome", i18n.T(lang, i18n.MsgEmailWelcomeSubject), unsubscribeURL, bodyData{
		Heading: i18n.T(lang, i18n.MsgEmailWelcomeHeading),
		Text:    i18n.T(lang, i18n.MsgEmailWelcomeBody),
		Button:  button{URL: r.siteURL, Label: r.company},
	})
}

// Post is the blog post summary used by notifications.
type Post struct {
	Title      string
	Excerpt    string
	URL        string
	CoverImage string
}

func (r *Renderer) BlogNotification(lang i18n.Lang, post Post, unsubscribeURL string) (Message, error) {
	return r.render(lang, "blog-notification", i18n.Tf(lang, i18n.MsgEmailBlogSubject, post.Title), unsubscribeURL, bodyData{
		Heading: post.Title,
		Text:    i18n.T(lang, i18n.MsgEmailBlogIntro),
		Summary: post.Excerpt,
		Image:   post.CoverImage,
		Button:  button{URL: post.URL, Label: i18n.T(lang, i18n.MsgEmailBlogReadMore)},
	})
}

func (r *Renderer) CatalogDownload(lang i18n.Lang, name, downloadURL string, ttl time.Duration) (Message, error) {
	hours := int(ttl.Hours())
	if hours < 1 {
		hours = 1
	}
	return r.render(lang, "catalog-download", i18n.T(lang, i18n.MsgEmailCatalogSubject), "", bodyData{
		Text:   i18n.Tf(lang, i18n.MsgEmailCatalogBody, name),
		Note:   i18n.Tf(lang, i18n.MsgEmailCatalogExpiry, hours),
		Button: button{URL: downloadURL, Label: i18n.T(lang, i18n.MsgEmailCatalogButton)},
	})
}
