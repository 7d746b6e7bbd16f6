package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/calclab/internal/expr"
	"github.com/san-kum/calclab/internal/quad"
)

// MaxSubdivisions caps the per-request trapezoid panel count.
const MaxSubdivisions = 1_000_000

type IntegrateRequest struct {
	Expr         string   `json:"expr" binding:"required"`
	A            *float64 `json:"a" binding:"required"`
	B            *float64 `json:"b" binding:"required"`
	Subdivisions int      `json:"subdivisions"`
}

type IntegrateResponse struct {
	Expr         string  `json:"expr"`
	Canonical    string  `json:"canonical"`
	A            float64 `json:"a"`
	B            float64 `json:"b"`
	Subdivisions int     `json:"subdivisions"`
	Value        float64 `json:"value"`
}

type RiemannRequest struct {
	Expr string   `json:"expr" binding:"required"`
	A    *float64 `json:"a" binding:"required"`
	B    *float64 `json:"b" binding:"required"`
	N    int      `json:"n"`
}

type VisualizeRequest struct {
	Expr    string   `json:"expr" binding:"required"`
	A       *float64 `json:"a" binding:"required"`
	B       *float64 `json:"b" binding:"required"`
	Riemann bool     `json:"riemann"`
	N       int      `json:"n"`
}

type ErrorResponse struct {
	Code  string   `json:"code"`
	Error string   `json:"error"`
	X     *float64 `json:"x,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	CacheSize   int    `json:"cache_size"`
	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
}

func (s *Server) handleHealth(c *gin.Context) {
	st := s.cache.Stats()
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		CacheSize:   st.Len,
		CacheHits:   st.Hits,
		CacheMisses: st.Misses,
	})
}

func (s *Server) handleIntegrate(c *gin.Context) {
	var req IntegrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	n := req.Subdivisions
	switch {
	case n == 0:
		n = s.cfg.Subdivisions
	case n < 0 || n > MaxSubdivisions:
		s.badRequest(c, errors.New("subdivisions must be between 1 and 1000000"))
		return
	}

	f, err := s.compile(req.Expr)
	if err != nil {
		s.fail(c, err)
		return
	}
	value, err := quad.Integrate(f, *req.A, *req.B, n)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, IntegrateResponse{
		Expr:         req.Expr,
		Canonical:    f.String(),
		A:            *req.A,
		B:            *req.B,
		Subdivisions: n,
		Value:        value,
	})
}

func (s *Server) handleRiemann(c *gin.Context) {
	var req RiemannRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	f, err := s.compile(req.Expr)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := quad.Riemann(f, *req.A, *req.B, s.steps(req.N))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleVisualize(c *gin.Context) {
	var req VisualizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	f, err := s.compile(req.Expr)
	if err != nil {
		s.fail(c, err)
		return
	}
	opts := s.cfg.VisualizeOptions(req.Riemann)
	if req.Riemann {
		opts.RiemannSteps = s.steps(req.N)
	}
	v, err := quad.Visualize(f, *req.A, *req.B, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleExamples(c *gin.Context) {
	c.JSON(http.StatusOK, s.cfg.AllExamples())
}

// steps maps a requested rectangle count onto the supported range; zero
// selects the configured default.
func (s *Server) steps(n int) int {
	if n == 0 {
		n = s.cfg.RiemannSteps
	}
	return quad.ClampSteps(n)
}

func (s *Server) compile(text string) (*expr.Compiled, error) {
	f, err := s.cache.Get(text)
	if err != nil {
		compileFailures.Inc()
	}
	return f, err
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.Set("code", codeInvalidRequest)
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: codeInvalidRequest, Error: err.Error()})
}

// fail maps engine errors onto status codes.
func (s *Server) fail(c *gin.Context, err error) {
	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var df *quad.DomainFailure
	switch {
	case errors.Is(err, expr.ErrInvalidExpression):
		status, resp.Code = http.StatusBadRequest, codeInvalidExpression
	case errors.As(err, &df):
		x := df.X
		status, resp.Code, resp.X = http.StatusUnprocessableEntity, codeDomainFailure, &x
	case errors.Is(err, quad.ErrInvalidInterval), errors.Is(err, quad.ErrInvalidSubdivisions):
		status, resp.Code = http.StatusBadRequest, codeInvalidRequest
	default:
		resp.Code = codeInternal
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}

	c.Set("code", resp.Code)
	c.JSON(status, resp)
}
