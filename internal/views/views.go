// Package views holds the HTML templates for the history and analysis pages.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

// Layout wraps every page.
const Layout = "layouts/main"

// Page names accepted by fiber.Ctx.Render.
const (
	PageIndex = "index"
	PageText  = "text"
	PageFile  = "file"
)

// NewEngine returns a Fiber view engine over the embedded templates.
// Reload re-parses templates on every render, for local development.
func NewEngine(reload bool) *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("views: embedded templates missing: %v", err))
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.Reload(reload)
	engine.AddFunc("deref", deref)
	engine.AddFunc("percent", percent)
	return engine
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func percent(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.2f%%", *p*100)
}
