package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rawblock/sudoku-engine/internal/debug"
	"github.com/rawblock/sudoku-engine/internal/solver"
	"github.com/rawblock/sudoku-engine/internal/store"
	"github.com/rawblock/sudoku-engine/pkg/models"
)

// validate is a single shared validator instance, grounded on the struct's
// own `validate:"..."` tags (internal/api is the one place those tags are
// read — the façade below it is not aware of the wire format at all).
var validate = validator.New()

// APIHandler is the demo HTTP host over the solver façade: it decodes and
// validates a wire PuzzleSpec, compiles it, drives a search mode, and
// (for /solve) streams progress snapshots to any subscribed dashboard.
type APIHandler struct {
	cache  *store.SolveCache
	wsHub  *Hub
	logger *debug.Logger
}

// SetupRouter wires the gin engine: CORS, the public solve endpoints, and
// the websocket progress stream. cache may be nil (cache-less mode).
func SetupRouter(cache *store.SolveCache, wsHub *Hub, logger *debug.Logger) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{cache: cache, wsHub: wsHub, logger: logger}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", handler.handleHealth)
		v1.GET("/stream", wsHub.Subscribe)
		v1.POST("/solve", handler.handleSolve)
		v1.POST("/solutions", handler.handleNthSolution)
		v1.POST("/count", handler.handleCount)
		v1.POST("/possibilities", handler.handlePossibilities)
		v1.POST("/validate", handler.handleValidateLayout)
	}

	return r
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "operational",
		"engine":      "variant-sudoku constraint engine",
		"cacheActive": h.cache != nil,
	})
}

// decodeSpec binds the request body into a PuzzleSpec and validates it
// against its `validate:"..."` struct tags before it is ever handed to the
// façade.
func decodeSpec(c *gin.Context) (models.PuzzleSpec, bool) {
	var spec models.PuzzleSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return spec, false
	}
	if err := validate.Struct(spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puzzle spec", "details": err.Error()})
		return spec, false
	}
	return spec, true
}

// handleSolve compiles spec, runs a solve to its first solution, and
// streams progress snapshots to any websocket subscriber for the
// duration of the run (spec §6.3).
func (h *APIHandler) handleSolve(c *gin.Context) {
	spec, ok := decodeSpec(c)
	if !ok {
		return
	}

	s, ok, err := solver.Compile(spec, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to compile constraint tree", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"found": false, "runId": uuid.NewString()})
		return
	}

	runID := uuid.NewString()
	d := s.NewRun()
	d.OnProgress = func(snap models.StateSnapshot) bool {
		snap.RunID = runID
		h.wsHub.BroadcastSnapshot(snap)
		return false
	}

	sol, found, aborted := d.NthSolution(0)
	c.JSON(http.StatusOK, gin.H{
		"runId":    runID,
		"found":    found,
		"aborted":  aborted,
		"solution": sol,
		"counters": d.Counters(),
	})
}

type nthRequest struct {
	models.PuzzleSpec
	N int `json:"n"`
}

// handleNthSolution is cache-backed for N==0 (the common "just solve it"
// case); any other N always runs fresh, since the cache only memoizes the
// first solution per signature.
func (h *APIHandler) handleNthSolution(c *gin.Context) {
	var req nthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := validate.Struct(req.PuzzleSpec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puzzle spec", "details": err.Error()})
		return
	}

	if req.N == 0 && h.cache != nil {
		sol, counters, found, err := h.cache.GetOrSolve(c.Request.Context(), req.PuzzleSpec, func() (models.Solution, models.Counters, bool, error) {
			return h.solveNth(req.PuzzleSpec, 0)
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to solve", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"found": found, "solution": sol, "counters": counters})
		return
	}

	sol, counters, found, err := h.solveNth(req.PuzzleSpec, req.N)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to solve", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": found, "solution": sol, "counters": counters})
}

func (h *APIHandler) solveNth(spec models.PuzzleSpec, n int) (models.Solution, models.Counters, bool, error) {
	s, ok, err := solver.Compile(spec, h.logger)
	if err != nil {
		return models.Solution{}, models.Counters{}, false, err
	}
	if !ok {
		return models.Solution{}, models.Counters{}, false, nil
	}
	sol, found, _ := s.NthSolution(n)
	return sol, s.LatestStats(), found, nil
}

func (h *APIHandler) handleCount(c *gin.Context) {
	spec, ok := decodeSpec(c)
	if !ok {
		return
	}
	s, ok, err := solver.Compile(spec, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to compile constraint tree", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"counters": models.Counters{}})
		return
	}
	counters, aborted := s.CountSolutions()
	c.JSON(http.StatusOK, gin.H{"counters": counters, "aborted": aborted})
}

func (h *APIHandler) handlePossibilities(c *gin.Context) {
	spec, ok := decodeSpec(c)
	if !ok {
		return
	}
	s, ok, err := solver.Compile(spec, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to compile constraint tree", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"possible": false})
		return
	}
	mask, aborted := s.SolveAllPossibilities()
	c.JSON(http.StatusOK, gin.H{"possible": true, "pencilmark": mask, "aborted": aborted})
}

func (h *APIHandler) handleValidateLayout(c *gin.Context) {
	spec, ok := decodeSpec(c)
	if !ok {
		return
	}
	s, ok, err := solver.CompileLayout(spec, h.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to compile layout", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	valid, aborted := s.ValidateLayout()
	c.JSON(http.StatusOK, gin.H{"valid": valid, "aborted": aborted})
}
