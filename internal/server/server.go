// Package server exposes the scan/identify/tag/organize pipeline over
// an HTTP JSON API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tagsmith/internal/domain"
	"tagsmith/internal/identify"
	"tagsmith/internal/musicbrainz"
	"tagsmith/internal/organizer"
	"tagsmith/internal/scanner"
	"tagsmith/internal/tagger"
)

// Server wires the pipeline stages behind HTTP handlers. The service
// is stateless: albums round-trip through request bodies.
type Server struct {
	scanner  *scanner.Scanner
	resolver *identify.Resolver
	tagger   *tagger.Tagger
	mb       *musicbrainz.Client
	log      *slog.Logger
}

// New assembles a server around a shared MusicBrainz client.
func New(mb *musicbrainz.Client, strictTrackMatch bool, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		scanner:  scanner.New(log),
		resolver: identify.NewResolver(mb, log),
		tagger:   tagger.New(mb, log, tagger.Options{StrictTrackMatch: strictTrackMatch}),
		mb:       mb,
		log:      log,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/connectivity/musicbrainz", s.connectivity)

	r.POST("/scan", s.scan)
	r.POST("/identify", s.identifyAlbums)
	r.POST("/identify/search", s.searchReleases)
	r.POST("/identify/resolve", s.resolveRelease)
	r.POST("/tag", s.tagAlbums)
	r.POST("/organize", s.organizeAlbums)

	return r
}

// Run serves the API on the given address.
func (s *Server) Run(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.Router().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// connectivity verifies the upstream service is reachable.
func (s *Server) connectivity(c *gin.Context) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("https://musicbrainz.org")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "offline", "message": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		c.JSON(http.StatusOK, gin.H{"status": "online", "message": "Connected to MusicBrainz"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "offline",
		"message": "Status Code: " + resp.Status,
	})
}

// organizerFor builds a per-request organizer; the output root comes
// in with the request.
func (s *Server) organizerFor(outputPath string) *organizer.Organizer {
	return organizer.New(outputPath, s.log)
}

// albumsOnly is the request body shared by identify and tag.
type albumsBody []domain.Album
