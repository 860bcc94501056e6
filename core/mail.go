package core

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	"io/fs"
	"log"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	appfs "github.com/aastu-its/interntrack/fs"
)

const emailTemplatesDir = "templates/email"

var (
	templates tmplCache
	tmplInit  sync.Once
)

type (
	tmplCacheEntry struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}
	tmplCache map[string]*tmplCacheEntry // {name: entry}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) contextData(frontendBaseURL string) ContextData {
	return ContextData{
		FrontendBaseURL: frontendBaseURL,
		Data:            m.TemplateData,
	}
}

// Render fills TextContent and HTMLContent from BodyStr or from the named template.
func (m *EmailMessage) Render(frontendBaseURL string) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	ParseEmailTemplates(nil)

	entry, ok := templates[m.TemplateName]
	if !ok {
		return fmt.Errorf("email template %q not found", m.TemplateName)
	}
	data := m.contextData(frontendBaseURL)

	if entry.text != nil && m.BodyStr == "" {
		var buff bytes.Buffer
		if err := entry.text.Execute(&buff, data); err != nil {
			return err
		}
		m.TextContent = buff.String()
	}
	if entry.html != nil {
		var buff bytes.Buffer
		if err := entry.html.Execute(&buff, data); err != nil {
			return err
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseEmailTemplates loads the embedded email templates once. Files starting with "_" are bases.
func ParseEmailTemplates(logger Logger) {
	tmplInit.Do(func() {
		templates = make(tmplCache)
		logErr := func(err error) {
			err = fmt.Errorf("core.ParseEmailTemplates: %v", err)
			if logger != nil {
				logger.Error(err.Error(), err)
			} else {
				log.Print(err)
			}
		}

		fps, err := fs.Glob(appfs.FS, path.Join(emailTemplatesDir, "*"))
		if err != nil {
			logErr(err)
			return
		}

		for _, fp := range fps {
			fname := path.Base(fp)
			ext := path.Ext(fname)
			if strings.HasPrefix(fname, "_") || !(ext == ".txt" || ext == ".gohtml") {
				continue
			}
			name := strings.TrimSuffix(fname, ext)
			entry, ok := templates[name]
			if !ok {
				entry = new(tmplCacheEntry)
				templates[name] = entry
			}

			base := path.Join(emailTemplatesDir, "_base"+ext)
			if ext == ".txt" {
				tmpl, err := texttmpl.ParseFS(appfs.FS, base, fp)
				if err != nil {
					logErr(err)
					continue
				}
				entry.text = tmpl.Option("missingkey=error")
			} else {
				tmpl, err := htmltmpl.ParseFS(appfs.FS, base, fp)
				if err != nil {
					logErr(err)
					continue
				}
				entry.html = tmpl.Option("missingkey=error")
			}
		}
	})
}
