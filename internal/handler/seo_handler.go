package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go-store-builder/internal/middleware"
	"go-store-builder/internal/service"
)

const sitemapDateFormat = "2006-01-02"

// SeoHandler serves a storefront's robots.txt and sitemap.xml.
type SeoHandler struct {
	pages   *service.PageService
	stores  StoreResolver
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin the
// storefront is served from.
func NewSeoHandler(ps *service.PageService, stores StoreResolver, baseURL string) *SeoHandler {
	return &SeoHandler{pages: ps, stores: stores, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *SeoHandler) storefrontURL(storeName string, parts ...string) string {
	p := h.baseURL + "/storefront/" + url.PathEscape(storeName)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// robotsHandler serves robots.txt pointing at the store's sitemap.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /storefront/"+url.PathEscape(store.Name)+"/")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Sitemap: "+h.storefrontURL(store.Name, "sitemap.xml"))
	return nil
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler lists the store's published pages.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	store, appErr := storeParam(r, h.stores)
	if appErr != nil {
		return appErr
	}
	pages := h.pages.PublishedPages(r.Context(), store.ID)

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(pages)),
	}
	for i, page := range pages {
		sitemap.URLs[i] = sitemapURL{
			Loc:     h.storefrontURL(store.Name, "pages", page.Slug),
			LastMod: page.UpdatedAt.Format(sitemapDateFormat),
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		// Headers are already sent; the error middleware can only log it.
		return &middleware.AppError{Error: err, Message: "Failed to generate sitemap XML", Code: http.StatusInternalServerError}
	}
	return nil
}
