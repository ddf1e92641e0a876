package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tagsmith/internal/domain"
	"tagsmith/internal/errmsg"
	"tagsmith/internal/musicbrainz"
)

type scanRequest struct {
	InputPath  string `json:"input_path" binding:"required"`
	OutputPath string `json:"output_path"`
}

func (s *Server) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	albums, err := s.scanner.Scan(req.InputPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errmsg.FormatWith(errmsg.OpScan, req.InputPath, err)})
		return
	}
	c.JSON(http.StatusOK, albums)
}

func (s *Server) identifyAlbums(c *gin.Context) {
	var albums albumsBody
	if err := c.ShouldBindJSON(&albums); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.resolver.IdentifyAll(albums))
}

type searchRequest struct {
	Artist string `json:"artist" binding:"required"`
	Album  string `json:"album" binding:"required"`
}

// searchReleases is the manual search for a human operator: raw
// candidates, no confidence filtering.
func (s *Server) searchReleases(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	releases, err := s.mb.SearchReleasesManual(musicbrainz.SearchQuery{
		Artist:  req.Artist,
		Release: req.Album,
	})
	if err != nil {
		s.log.Error(errmsg.Format(errmsg.OpSearch, err))
		// A failed manual search reads as "no candidates", not an error.
		c.JSON(http.StatusOK, []musicbrainz.Release{})
		return
	}
	c.JSON(http.StatusOK, releases)
}

type resolveRequest struct {
	Album       domain.Album `json:"album"`
	MBReleaseID string       `json:"mb_release_id" binding:"required"`
}

func (s *Server) resolveRelease(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.resolver.Resolve(req.Album, req.MBReleaseID))
}

func (s *Server) tagAlbums(c *gin.Context) {
	var albums albumsBody
	if err := c.ShouldBindJSON(&albums); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.tagger.TagAll(albums))
}

type organizeRequest struct {
	Albums     []domain.Album `json:"albums"`
	OutputPath string         `json:"output_path" binding:"required"`
}

func (s *Server) organizeAlbums(c *gin.Context) {
	var req organizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	albums, report := s.organizerFor(req.OutputPath).OrganizeAll(req.Albums)
	c.JSON(http.StatusOK, gin.H{
		"attempted": report.Attempted,
		"moved":     report.Moved,
		"albums":    albums,
	})
}
