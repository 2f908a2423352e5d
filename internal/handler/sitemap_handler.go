package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"treeshop/internal/domain/model"
	"treeshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// 固定ページ
var staticPages = []struct {
	path       string
	changeFreq string
	priority   float64
}{
	{"", "weekly", 1.0},
	{"/catalog", "daily", 0.9},
	{"/about", "monthly", 0.8},
	{"/services", "monthly", 0.7},
	{"/payment-delivery", "monthly", 0.7},
	{"/contacts", "monthly", 0.7},
}

// sitemapの材料
type sitemapSource interface {
	Categories(ctx context.Context) ([]model.Category, error)
	Products(ctx context.Context) ([]model.Product, error)
}

// GET /sitemap.xml
type SitemapHandler struct {
	src     sitemapSource
	siteURL string
	now     func() time.Time
}

func NewSitemapHandler(categories *usecase.CategoryUsecase, products *usecase.ProductUsecase, siteURL string) *SitemapHandler {
	return &SitemapHandler{
		src:     catalogSource{categories: categories, products: products},
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     time.Now,
	}
}

func (h *SitemapHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sitemap.xml", h.sitemap)
}

func (h *SitemapHandler) sitemap(c echo.Context) error {
	ctx := c.Request().Context()

	cats, err := h.src.Categories(ctx)
	if err != nil {
		return writeError(c, err)
	}
	products, err := h.src.Products(ctx)
	if err != nil {
		return writeError(c, err)
	}

	today := h.now().UTC().Format("2006-01-02")
	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + p.path,
			LastMod:    today,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	for _, cat := range cats {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/catalog/category/" + cat.Slug,
			LastMod:    cat.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}
	for _, p := range products {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.siteURL + "/catalog/" + p.Slug,
			LastMod:    p.UpdatedAt.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   0.6,
		})
	}

	b, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, append([]byte(xml.Header), b...))
}

// usecaseから全件を集める
type catalogSource struct {
	categories *usecase.CategoryUsecase
	products   *usecase.ProductUsecase
}

func (s catalogSource) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s catalogSource) Products(ctx context.Context) ([]model.Product, error) {
	const pageSize = 100

	var all []model.Product
	for page := 1; ; page++ {
		out, err := s.products.List(ctx, usecase.ListProductsInput{Page: page, Limit: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, out.Items...)
		if len(out.Items) < pageSize || int64(len(all)) >= out.Total {
			return all, nil
		}
	}
}
