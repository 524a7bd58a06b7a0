package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// pageTemplate 是 LETTER 尺寸的打印页，预览与 PDF 使用同一份模板。
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        @page { size: letter; margin: 0; }
        body {
            margin: 0;
            font-family: Helvetica, Arial, sans-serif;
            font-size: 10pt;
            color: #111827;
        }
        .page { width: 8.5in; min-height: 11in; padding: 40px; box-sizing: border-box; }
        .header {
            text-align: center;
            border-bottom: 1px solid #e5e7eb;
            padding-bottom: 10px;
            margin-bottom: 10px;
        }
        .name { font-size: 20pt; font-weight: bold; }
        .contact-row { margin-top: 4px; color: #4b5563; }
        .contact-row a { color: #2563eb; text-decoration: none; margin: 0 4px; }
        .section { margin-bottom: 10px; }
        .section-title {
            font-size: 11pt;
            font-weight: bold;
            text-transform: uppercase;
            color: #374151;
            margin-bottom: 4px;
        }
        .entry { margin-bottom: 6px; }
        .entry-header { display: flex; justify-content: space-between; }
        .entry-title { font-weight: bold; }
        .entry-subtitle { color: #4b5563; }
        .entry-date { color: #6b7280; }
        .text { color: #4b5563; margin-top: 2px; white-space: pre-wrap; }
    </style>
</head>
<body>
<div class="page">
    <div class="header">
        <div class="name">{{.Doc.Name}}</div>
        {{if .Doc.Contact}}<div class="contact-row">{{.Doc.ContactLine}}</div>{{end}}
        {{if .Doc.Links}}<div class="contact-row">{{range .Doc.Links}}<a href="{{.URL}}">{{.Label}}</a>{{end}}</div>{{end}}
    </div>
    {{range .Doc.Sections}}
    <div class="section">
        <div class="section-title">{{.Title}}</div>
        {{if .Text}}<div class="text">{{.Text}}</div>{{end}}
        {{range .Entries}}
        <div class="entry">
            <div class="entry-header">
                <span class="entry-title">{{.Heading}}</span>
                {{if .Dates}}<span class="entry-date">{{.Dates}}</span>{{end}}
            </div>
            {{if .Subheading}}<div class="entry-subtitle">{{.Subheading}}</div>{{end}}
            {{if .URL}}<div class="entry-subtitle">{{.URL}}</div>{{end}}
            {{if .Description}}<div class="text">{{.Description}}</div>{{end}}
        </div>
        {{end}}
    </div>
    {{end}}
</div>
</body>
</html>
`

var page = template.Must(template.New("resume").Parse(pageTemplate))

// HTML 渲染可打印页面，所有内容都会被转义。
func HTML(doc Document, title string) ([]byte, error) {
	if title == "" {
		title = "resume"
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, struct {
		Title string
		Doc   Document
	}{Title: title, Doc: doc}); err != nil {
		return nil, fmt.Errorf("render resume html: %w", err)
	}
	return buf.Bytes(), nil
}
