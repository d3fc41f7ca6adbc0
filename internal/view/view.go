// Package view renders the storefront's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	ginrender "github.com/gin-gonic/gin/render"
	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/guttosm/green-haven/internal/i18n"
)

// Page names.
const (
	PageLanding  = "landing"
	PageProducts = "products"
	PageCart     = "cart"
)

// CartSummaryTemplate is the fragment streamed to open cart pages.
const CartSummaryTemplate = "cart_summary"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is what every page template receives.
type PageData struct {
	Locale   string
	Active   string
	Products []model.Product
	Cart     model.CartState
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages   map[string]*template.Template
	summary *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"t":     translate,
		"price": model.FormatPrice,
	}

	r := &Renderer{pages: make(map[string]*template.Template, 3)}
	for _, page := range []string{PageLanding, PageProducts, PageCart} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/cart_summary.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	summary, err := template.New(CartSummaryTemplate).Funcs(funcs).ParseFS(templateFS, "templates/cart_summary.html")
	if err != nil {
		return nil, fmt.Errorf("parse cart summary template: %w", err)
	}
	r.summary = summary
	return r, nil
}

// MustNew is like New but panics on error. The templates are embedded, so
// an error here is a build defect.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page wrapped in the shared layout.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if data.Active == "" {
		data.Active = page
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// RenderCartSummary renders only the cart summary fragment.
func (r *Renderer) RenderCartSummary(w io.Writer, locale string, cart model.CartState) error {
	return r.summary.ExecuteTemplate(w, CartSummaryTemplate, PageData{Locale: locale, Cart: cart})
}

// CartSummary returns the rendered fragment as a string, ready for an SSE payload.
func (r *Renderer) CartSummary(locale string, cart model.CartState) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderCartSummary(&buf, locale, cart); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Page returns a gin renderer for page. The page is rendered into a buffer
// first so a template error never leaves a half written response.
func (r *Renderer) Page(page string, data PageData) ginrender.Render {
	return pageRender{renderer: r, page: page, data: data}
}

var htmlContentType = []string{"text/html; charset=utf-8"}

type pageRender struct {
	renderer *Renderer
	page     string
	data     PageData
}

func (p pageRender) Render(w http.ResponseWriter) error {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, p.page, p.data); err != nil {
		return err
	}
	p.WriteContentType(w)
	_, err := buf.WriteTo(w)
	return err
}

func (p pageRender) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}

// Static returns the embedded stylesheet, script and plant images.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func translate(locale, key string) string {
	return i18n.GetTranslator().Translate(key, locale)
}
