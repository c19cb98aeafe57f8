package newsletter

import (
	"bytes"
	"html/template"

	"github.com/soldertec/site/internal/pkg/i18n"
)

const pageTpl = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<meta name="robots" content="noindex" />
<title>{{.Title}}</title>
<style>
body{margin:0;min-height:100vh;display:flex;align-items:center;justify-content:center;background:#f4f4f5;font-family:ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;color:#111827}
main{max-width:560px;background:#fff;border-top:4px solid #f97316;border-radius:8px;padding:32px;margin:24px}
section+section{margin-top:24px;padding-top:24px;border-top:1px solid #e5e7eb}
h1{font-size:20px;margin:0 0 8px}
p{line-height:1.6;margin:0 0 8px}
button{margin-top:24px;padding:12px 20px;border:0;border-radius:4px;background:#f97316;color:#fff;font-weight:600;cursor:pointer}
a{color:#f97316}
</style>
</head>
<body>
<main>
{{range .Sections}}<section lang="{{.Lang}}"><h1>{{.Title}}</h1><p>{{.Body}}</p></section>
{{end}}{{with .Form}}<form method="post" action="{{.Action}}"><input type="hidden" name="token" value="{{.Token}}" /><button type="submit">{{.Button}}</button></form>
{{end}}<p style="margin-top:24px"><a href="{{.HomeURL}}">{{.Home}}</a></p>
</main>
</body>
</html>`

var pageTemplate = template.Must(template.New("page").Parse(pageTpl))

type pageSection struct {
	Lang  i18n.Lang
	Title string
	Body  string
}

type pageForm struct {
	Action string
	Token  string
	Button string
}

type pageData struct {
	Title    string
	Sections []pageSection
	Form     *pageForm
	HomeURL  string
	Home     string
}

// pages renders the bilingual confirm and unsubscribe landing pages.
type pages struct {
	siteURL string
}

func (p pages) message(titleID, bodyID i18n.MsgID, args ...any) ([]byte, error) {
	return p.render(titleID, bodyID, nil, args...)
}

func (p pages) unsubscribeForm(email, token string) ([]byte, error) {
	return p.render(i18n.MsgPageUnsubscribeTitle, i18n.MsgPageUnsubscribeQuestion, &pageForm{
		Action: "/api/newsletter/unsubscribe",
		Token:  token,
		Button: joinBoth(i18n.MsgPageUnsubscribeButton),
	}, email)
}

func (p pages) render(titleID, bodyID i18n.MsgID, form *pageForm, args ...any) ([]byte, error) {
	data := pageData{
		Title:   joinBoth(titleID),
		Form:    form,
		HomeURL: p.siteURL + "/",
		Home:    joinBoth(i18n.MsgPageBackHome),
	}
	for _, lang := range i18n.Supported {
		data.Sections = append(data.Sections, pageSection{
			Lang:  lang,
			Title: i18n.T(lang, titleID),
			Body:  i18n.Tf(lang, bodyID, args...),
		})
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinBoth(id i18n.MsgID) string {
	both := i18n.Both(id)
	out := both[0]
	for _, s := range both[1:] {
		if s != out {
			out += " / " + s
		}
	}
	return out
}
