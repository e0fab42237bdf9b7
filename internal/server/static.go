package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FReptar0/EvoSystems/internal/analytics"
	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/logger"
	"github.com/FReptar0/EvoSystems/internal/render"
)

// static serves the build output. Directories are served only through their
// index.html; anything missing gets the 404 page of the request's locale.
// Every HTML page served to a GET is tracked as a page view.
func (s *Server) static(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	clean := path.Clean("/" + c.Request.URL.Path)
	full := filepath.Join(s.opts.OutputDir, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	isPage := err == nil && strings.HasSuffix(clean, ".html")
	if err == nil && info.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		isPage = true
	}
	if err != nil {
		s.notFound(c, clean)
		return
	}
	if isPage && c.Request.Method == http.MethodGet {
		l, _ := i18n.DetectLocale(clean)
		s.track(c.GetHeader(clientIDHeader), analytics.PageView(clean, l.String()))
	}

	// dev server: always serve the latest build
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	http.FileServer(http.Dir(s.opts.OutputDir)).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) notFound(c *gin.Context, p string) {
	l, _ := i18n.DetectLocale(p)
	page := filepath.Join(s.opts.OutputDir, filepath.FromSlash(i18n.LocalizePath("/", l)), render.NotFoundFile)
	body, err := os.ReadFile(page)
	if err != nil {
		s.log.Debug("404 page missing", logger.String("path", page), logger.Error(err))
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
}
