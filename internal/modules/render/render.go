package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sacred-word/core/internal/modules/processing/verse"
	"github.com/sacred-word/core/internal/pkg/response"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

const pageStyle = `body{font-family:"Hind Siliguri",sans-serif;max-width:42rem;margin:0 auto;padding:2rem 1rem;background:#111;color:#eee;line-height:1.8}
blockquote{border-left:3px solid #c9a227;margin:0;padding:.5rem 1rem;font-size:1.2rem}
h1{font-size:1.4rem;color:#c9a227}
footer{margin-top:3rem;font-size:.8rem;color:#888}`

// BuildMarkdown renders a verse as a shareable markdown document.
func BuildMarkdown(v verse.Verse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", v.Reference)
	fmt.Fprintf(&b, "> %s\n\n", v.Text)
	writeSection(&b, "ব্যাখ্যা", v.Explanation.TheologicalMeaning, v.Explanation.TheologicalReference)
	writeSection(&b, "পটভূমি", v.Explanation.HistoricalContext, v.Explanation.HistoricalReference)
	writeSection(&b, "প্রয়োগ", v.Explanation.PracticalApplication, v.Explanation.PracticalReference)
	if v.Prayer != "" {
		fmt.Fprintf(&b, "*%s*\n\n", v.Prayer)
	}
	if len(v.KeyThemes) > 0 {
		fmt.Fprintf(&b, "`%s`\n", strings.Join(v.KeyThemes, "` `"))
	}
	return b.String()
}

func writeSection(b *strings.Builder, heading, text, source string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, text)
	if source != "" {
		fmt.Fprintf(b, "সূত্র: %s\n\n", source)
	}
}

// RenderHTML converts verse markdown into a standalone share page.
func RenderHTML(v verse.Verse, siteTitle string) (string, error) {
	var body bytes.Buffer
	if err := markdownEngine.Convert([]byte(BuildMarkdown(v)), &body); err != nil {
		return "", err
	}
	if siteTitle == "" {
		siteTitle = "Sacred Word"
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"bn\">\n<head>\n<meta charset=\"utf-8\" />\n")
	page.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	fmt.Fprintf(&page, "<title>%s · %s</title>\n", template.HTMLEscapeString(v.Reference), template.HTMLEscapeString(siteTitle))
	fmt.Fprintf(&page, "<style>%s</style>\n", pageStyle)
	page.WriteString("</head>\n<body>\n<article>\n")
	page.Write(body.Bytes())
	page.WriteString("</article>\n")
	fmt.Fprintf(&page, "<footer>%s</footer>\n", template.HTMLEscapeString(siteTitle))
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

type Handler struct {
	verses    *verse.Service
	siteTitle func() string
}

func NewHandler(verses *verse.Service, siteTitle func() string) *Handler {
	if siteTitle == nil {
		siteTitle = func() string { return "" }
	}
	return &Handler{verses: verses, siteTitle: siteTitle}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/render/verses/:reference", h.sharePage)
}

// sharePage renders a saved verse as a standalone HTML page.
func (h *Handler) sharePage(c *gin.Context) {
	reference := c.Param("reference")
	items, err := h.verses.Saved()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	for _, item := range items {
		if item.Reference != reference && item.ID != reference {
			continue
		}
		page, err := RenderHTML(item, h.siteTitle())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}
	response.NotFound(c)
}
