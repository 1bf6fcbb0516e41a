package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xhad/webcontent/internal/models"
	"github.com/xhad/webcontent/internal/types"
	"github.com/xhad/webcontent/pkg/extractor"
	"github.com/xhad/webcontent/pkg/fetcher"
)

const (
	heyMessage      = "hey you are right"
	shutdownTimeout = 10 * time.Second
)

type Config struct {
	Port           int
	AllowedOrigins []string
	Logger         *zerolog.Logger
}

type Server struct {
	config    Config
	engine    *gin.Engine
	fetcher   types.Fetcher
	extractor types.Extractor
	log       zerolog.Logger
}

func New(config Config, f types.Fetcher, e types.Extractor) (*Server, error) {
	if f == nil {
		return nil, errors.New("fetcher cannot be nil")
	}
	if e == nil {
		return nil, errors.New("extractor cannot be nil")
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = config.Logger.With().Str("component", "server").Logger()
	}

	s := &Server{
		config:    config,
		fetcher:   f,
		extractor: e,
		log:       log,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery(), cors(s.config.AllowedOrigins))

	r.POST("/getwebsitecontent", s.handleGetWebsiteContent)
	r.GET("/hey", s.handleHey)

	return r
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run binds the port and serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msgf("Server is running at http://%s", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

func (s *Server) handleGetWebsiteContent(c *gin.Context) {
	var req models.ContentRequest
	// An empty body is treated like a body without a url.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.log.Warn().Err(err).Msg("Rejected malformed request body")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.MsgInvalidBody})
		return
	}

	if err := req.Validate(); err != nil {
		var verr models.ValidationError
		msg := models.MsgURLRequired
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		s.log.Warn().Err(err).Msg("Rejected request")
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	content, err := s.extractText(c.Request.Context(), req.URL)
	if err != nil {
		s.logFailure(req.URL, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgExtractFailure})
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Content: content})
}

// extractText fetches url and extracts its text. Extraction never runs after a
// failed fetch.
func (s *Server) extractText(ctx context.Context, url string) (string, error) {
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return s.extractor.Extract(html)
}

func (s *Server) logFailure(url string, err error) {
	var (
		fetchErr   *fetcher.FetchError
		extractErr *extractor.ExtractionError
	)

	event := s.log.Error().Err(err).Str("url", url)
	switch {
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode != 0 {
			event = event.Int("status", fetchErr.StatusCode)
		}
		event.Str("stage", "fetch").Msg("Failed to fetch website")
	case errors.As(err, &extractErr):
		event.Str("stage", "extract").Msg("Failed to extract text from website")
	default:
		event.Msg("Failed to get website content")
	}
}

func (s *Server) handleHey(c *gin.Context) {
	c.JSON(http.StatusOK, models.ContentResponse{Content: heyMessage})
}
