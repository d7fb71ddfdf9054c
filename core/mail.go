package core

import (
	"bytes"
	"embed"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"net/http"
	"net/mail"
	"path"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed all:templates/email
var templatesFS embed.FS

const templatesDir = "templates/email"

var (
	textTemplates = make(map[string]*texttmpl.Template)
	htmlTemplates = make(map[string]*htmltmpl.Template)
	tmplMu        sync.Mutex
)

type (
	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		ReplyTo     *mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		AppName string
		Data    interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) contextData(appName string) ContextData {
	return ContextData{AppName: appName, Data: m.TemplateData}
}

// Render fills TextContent & HTMLContent from BodyStr or from the embedded templates named TemplateName.
func (m *EmailMessage) Render(appName string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	txt, html, err := loadTemplates(m.TemplateName)
	if err != nil {
		return err
	}
	data := m.contextData(appName)

	if m.BodyStr == "" {
		var buff bytes.Buffer
		if err := txt.ExecuteTemplate(&buff, "base", data); err != nil {
			return errors.Wrap(err, "rendering text template")
		}
		m.TextContent = buff.String()
	}

	var buff bytes.Buffer
	if err := html.ExecuteTemplate(&buff, "base", data); err != nil {
		return errors.Wrap(err, "rendering html template")
	}
	m.HTMLContent = buff.String()
	return nil
}

// Attach base64 encodes the content of `r` and attaches it to the message.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}
	encoder := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := encoder.Write(content); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if len(ct) > 0 {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

func loadTemplates(name string) (*texttmpl.Template, *htmltmpl.Template, error) {
	tmplMu.Lock()
	defer tmplMu.Unlock()

	txt, ok := textTemplates[name]
	if !ok {
		var err error
		txt, err = texttmpl.ParseFS(templatesFS, path.Join(templatesDir, "_base.txt"), path.Join(templatesDir, name+".txt"))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parsing %s.txt", name)
		}
		textTemplates[name] = txt.Option("missingkey=error")
	}

	html, ok := htmlTemplates[name]
	if !ok {
		var err error
		html, err = htmltmpl.ParseFS(templatesFS, path.Join(templatesDir, "_base.gohtml"), path.Join(templatesDir, name+".gohtml"))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "parsing %s.gohtml", name)
		}
		htmlTemplates[name] = html.Option("missingkey=error")
	}
	return textTemplates[name], htmlTemplates[name], nil
}
