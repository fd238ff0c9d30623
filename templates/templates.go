// Package templates holds the HTML of every workshop view.
package templates

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-contrib/multitemplate"

	"sqlworkshop-server/models"
	"sqlworkshop-server/workshop"
)

//go:embed html/*.html
var files embed.FS

// Page is the data every view template receives.
type Page struct {
	VM     workshop.ViewModel
	Notice string
	Level  string
}

var funcs = template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
}

// Name is the renderer key of a view.
func Name(v models.View) string {
	return "view_" + string(v)
}

// NewRenderer builds one template set per view, each sharing the layout.
func NewRenderer() (multitemplate.Render, error) {
	r := multitemplate.New()
	for _, v := range models.AllViews {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "html/layout.html", "html/"+string(v)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template for view %s: %w", v, err)
		}
		r.Add(Name(v), tmpl)
	}
	return r, nil
}
