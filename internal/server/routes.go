package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/parsedump/internal/dump"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

// Response headers summarising a render.
const (
	HeaderFramed    = "X-Parsedump-Framed"
	HeaderRendered  = "X-Parsedump-Rendered"
	HeaderDropped   = "X-Parsedump-Dropped"
	HeaderTruncated = "X-Parsedump-Truncated"
)

var ErrBadQuery = errors.New("server: invalid query parameter")

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": "parsedump",
			"version": version,
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": "parsedump",
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/render", s.handleRender)
}

// handleRender converts the request body. Query parameters limit, decode
// and annotate override the service config for this request only.
func (s *Server) handleRender(c *gin.Context) {
	opts, err := s.Config.DumpOptions(dump.NoLimit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := applyQuery(c, &opts); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.Config.Serve.MaxBodyBytes)
	var doc bytes.Buffer
	stats, err := dump.Run(body, &doc, opts)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(stats.InputErr, &tooLarge) {
		_ = c.Error(stats.InputErr)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("capture exceeds %d bytes", tooLarge.Limit),
		})
		return
	}

	if stats.InputErr != nil {
		log.Warn().Err(stats.InputErr).Msg("request body ended early")
		c.Header(HeaderTruncated, "true")
	}
	c.Header(HeaderFramed, strconv.Itoa(stats.Framed))
	c.Header(HeaderRendered, strconv.Itoa(stats.Rendered))
	c.Header(HeaderDropped, strconv.Itoa(stats.Dropped))
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc.Bytes())
}

func applyQuery(c *gin.Context, opts *dump.Options) error {
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return fmt.Errorf("%w: limit=%q", ErrBadQuery, raw)
		}
		opts.Limit = limit
	}
	if raw, ok := c.GetQuery("decode"); ok {
		decode, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: decode=%q", ErrBadQuery, raw)
		}
		opts.Decode = decode
	}
	if raw, ok := c.GetQuery("annotate"); ok {
		annotate, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: annotate=%q", ErrBadQuery, raw)
		}
		opts.AnnotateHeaders = annotate
	}
	return nil
}
