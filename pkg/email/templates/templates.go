// Package templates renders the HTML bodies of lifecycle emails.
package templates

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"strings"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var parsed = template.Must(template.ParseFS(files, "*.html"))

const (
	Activated = "activated"
	Canceled  = "canceled"
)

var ErrUnknownTemplate = errors.New("templates: unknown template")

// Data is passed to every template.
type Data struct {
	Email  string
	Plan   string
	AppURL string
}

// Component returns the named template bound to data.
func Component(name string, data Data) (templ.Component, error) {
	t := parsed.Lookup(name)
	if t == nil {
		return nil, ErrUnknownTemplate
	}
	return templ.FromGoHTML(t, data), nil
}

// Render writes a component to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderByName is Component followed by Render.
func RenderByName(ctx context.Context, name string, data Data) (string, error) {
	c, err := Component(name, data)
	if err != nil {
		return "", err
	}
	return Render(ctx, c)
}
