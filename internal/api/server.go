package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/grant-matcher/internal/ai"
	"github.com/david/grant-matcher/internal/auth"
	"github.com/david/grant-matcher/internal/db"
	"github.com/david/grant-matcher/internal/export"
	"github.com/david/grant-matcher/internal/ingest"
	"github.com/david/grant-matcher/internal/match"
	"github.com/david/grant-matcher/internal/models"
	"github.com/david/grant-matcher/internal/profile"
)

const maxUploadBytes = 20 << 20

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	AI          *ai.OllamaClient
	Extractor   *ai.Extractor

	// Background job tracking
	jobMu      sync.Mutex
	runningJob *backgroundJob
}

type backgroundJob struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"` // running, completed, failed
	StartedAt time.Time          `json:"started_at"`
	EndedAt   time.Time          `json:"ended_at,omitempty"`
	Result    any                `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	Cancel    context.CancelFunc `json:"-"`
}

func NewServer(pool *pgxpool.Pool) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	store := db.NewStore(pool)
	authService := auth.NewService(pool)

	// Initialize AI client once
	ollamaHost := os.Getenv("OLLAMA_HOST")
	if ollamaHost == "" {
		ollamaHost = "http://localhost:11434"
	}
	aiClient := ai.NewOllamaClient(ollamaHost, "", "qwen2.5:14b")

	s := &Server{
		DB:          pool,
		Store:       store,
		AuthService: authService,
		Echo:        e,
		AI:          aiClient,
		Extractor:   ai.NewExtractor(aiClient),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Auth Routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Everything below is per-user data.
	me := api.Group("")
	me.Use(auth.Middleware)

	// Grant catalog
	me.POST("/grants/upload", s.handleUploadGrants)
	me.GET("/grants", s.handleListGrants)
	me.GET("/grants/search", s.handleSearchGrants)
	me.GET("/grants/:id", s.handleGetGrant)
	me.POST("/grants/embed", s.handleEmbedGrants)
	me.GET("/jobs/:id", s.handleJobStatus)

	// Profile building
	me.GET("/profile", s.handleGetProfile)
	me.POST("/profile/questionnaire", s.handleQuestionnaire)
	me.POST("/profile/website", s.handleScanWebsite)
	me.POST("/profile/document", s.handleUploadDocument)
	me.POST("/profile/notes", s.handleAddNotes)

	// Matching
	me.POST("/match", s.handleRunMatch)
	me.GET("/match/runs", s.handleListRuns)
	me.GET("/match/runs/:id", s.handleGetRun)
	me.GET("/match/runs/:id/export", s.handleExportRun)

	// Shortlist
	me.POST("/shortlist/:id", s.handleAddShortlist)
	me.DELETE("/shortlist/:id", s.handleRemoveShortlist)
	me.GET("/shortlist", s.handleGetShortlist)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// Grant catalog handlers

func (s *Server) handleUploadGrants(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not open upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read upload"})
	}

	result, err := ingest.ParseWorkbookBytes(data)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	if err := s.Store.ReplaceGrants(c.Request().Context(), userID, result.Grants); err != nil {
		c.Logger().Errorf("Failed to replace grants: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store grants"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"imported":     len(result.Grants),
		"sheet_counts": result.SheetCounts,
		"row_errors":   result.RowErrors,
	})
}

func (s *Server) handleListGrants(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	grants, err := s.Store.ListGrants(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("Failed to list grants: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, grants)
}

func (s *Server) handleGetGrant(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	grantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	grant, err := s.Store.GetGrant(c.Request().Context(), userID, grantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, grant)
}

// handleSearchGrants does semantic search over the user's catalog. If the
// embedding backend is down it falls back to substring matching so search
// still answers.
func (s *Server) handleSearchGrants(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q param required"})
	}
	limit := 10
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 50 {
		limit = l
	}

	aiCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vec, err := s.AI.GenerateEmbedding(aiCtx, q)
	if err == nil {
		grants, err := s.Store.SearchGrantsByEmbedding(c.Request().Context(), userID, vec, limit)
		if err == nil {
			return c.JSON(http.StatusOK, grants)
		}
		c.Logger().Errorf("Vector search failed: %v", err)
	} else {
		c.Logger().Errorf("Failed to generate query embedding: %v", err)
	}

	all, err := s.Store.ListGrants(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	needle := strings.ToLower(q)
	matched := []models.GrantRecord{}
	for _, g := range all {
		if strings.Contains(strings.ToLower(g.Name), needle) ||
			strings.Contains(strings.ToLower(g.Description), needle) ||
			strings.Contains(strings.ToLower(g.Funder), needle) {
			matched = append(matched, g)
			if len(matched) == limit {
				break
			}
		}
	}
	return c.JSON(http.StatusOK, matched)
}

// handleEmbedGrants recomputes embeddings for the user's whole catalog in a
// background job and returns 202 with a poll URL.
func (s *Server) handleEmbedGrants(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	s.jobMu.Lock()
	if s.runningJob != nil && s.runningJob.Status == "running" {
		job := s.runningJob
		s.jobMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"error":  "An embedding job is already running",
			"job_id": job.ID,
		})
	}

	// context.WithoutCancel detaches from HTTP lifecycle but preserves
	// trace values. We add our own timeout for safety.
	jobCtx, jobCancel := context.WithTimeout(
		context.WithoutCancel(c.Request().Context()), 30*time.Minute,
	)

	jobID := uuid.New().String()[:8]
	job := &backgroundJob{
		ID:        jobID,
		Status:    "running",
		StartedAt: time.Now(),
		Cancel:    jobCancel,
	}
	s.runningJob = job
	s.jobMu.Unlock()

	go func() {
		defer jobCancel()

		grants, err := s.Store.ListGrants(jobCtx, userID)
		if err != nil {
			s.finishJob(job, nil, err)
			return
		}

		embedded, failed := 0, 0
		for _, g := range grants {
			vec, err := s.AI.GenerateEmbedding(jobCtx, g.Name+"\n"+g.Description)
			if err != nil {
				failed++
				if jobCtx.Err() != nil {
					s.finishJob(job, nil, jobCtx.Err())
					return
				}
				continue
			}
			if err := s.Store.UpdateGrantEmbedding(jobCtx, g.ID, vec); err != nil {
				failed++
				continue
			}
			embedded++
		}

		s.finishJob(job, map[string]interface{}{
			"embedded": embedded,
			"failed":   failed,
			"total":    len(grants),
		}, nil)
		log.Printf("[embed-job %s] completed: embedded=%d failed=%d", jobID, embedded, failed)
	}()

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Embedding job started",
		"job_id":  jobID,
		"poll":    fmt.Sprintf("/api/v1/jobs/%s", jobID),
	})
}

func (s *Server) finishJob(job *backgroundJob, result any, err error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	job.EndedAt = time.Now()
	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		return
	}
	job.Status = "completed"
	job.Result = result
}

func (s *Server) handleJobStatus(c echo.Context) error {
	queried := c.Param("id")
	s.jobMu.Lock()
	job := s.runningJob
	s.jobMu.Unlock()

	if job == nil || job.ID != queried {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
	}

	s.jobMu.Lock()
	resp := map[string]interface{}{
		"id":         job.ID,
		"status":     job.Status,
		"started_at": job.StartedAt,
	}
	if !job.EndedAt.IsZero() {
		resp["ended_at"] = job.EndedAt
		resp["duration"] = job.EndedAt.Sub(job.StartedAt).String()
	}
	if job.Result != nil {
		resp["result"] = job.Result
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	s.jobMu.Unlock()

	return c.JSON(http.StatusOK, resp)
}

// Profile handlers

func (s *Server) handleGetProfile(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	prof, err := s.Store.GetProfile(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("Failed to load profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, prof)
}

func (s *Server) handleQuestionnaire(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var answers models.QuestionnaireAnswers
	if err := c.Bind(&answers); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ctx := c.Request().Context()
	prof, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	profile.ApplyQuestionnaire(prof, answers, time.Now().UTC())

	if err := s.Store.SaveProfile(ctx, userID, prof); err != nil {
		c.Logger().Errorf("Failed to save profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}
	return c.JSON(http.StatusOK, prof)
}

type scanRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleScanWebsite(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req scanRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}
	if status, msg := validateScanURL(req.URL); status != 0 {
		return c.JSON(status, map[string]string{"error": msg})
	}

	scanner := profile.NewScanner()
	scan, err := scanner.Scan(req.URL)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	prof, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	profile.ApplyScan(prof, scan, time.Now().UTC())

	// Need extraction is best effort: the fact hints above stand on their
	// own when the model is unreachable.
	needs, err := s.Extractor.ExtractNeeds(ctx, scan.BaseURL, models.SourceWebsite, scan.CombinedText(4000))
	if err != nil {
		c.Logger().Errorf("Need extraction from website failed: %v", err)
	}
	profile.AddNeeds(prof, needs)

	if err := s.Store.SaveProfile(ctx, userID, prof); err != nil {
		c.Logger().Errorf("Failed to save profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pages_scanned": len(scan.Pages),
		"needs_added":   len(needs),
		"profile":       prof,
	})
}

func (s *Server) handleUploadDocument(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not open upload"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read upload"})
	}

	text, err := profile.ExtractDocumentText(fileHeader.Filename, data)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	needs, err := s.Extractor.ExtractNeeds(ctx, fileHeader.Filename, models.SourceDocument, text)
	if err != nil {
		c.Logger().Errorf("Need extraction from document failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Need extraction failed"})
	}

	prof, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	profile.AddNeeds(prof, needs)
	prof.UpdatedAt = time.Now().UTC()

	if err := s.Store.SaveProfile(ctx, userID, prof); err != nil {
		c.Logger().Errorf("Failed to save profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"needs_added": len(needs),
		"needs":       needs,
	})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleAddNotes(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req notesRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Notes) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "notes is required"})
	}

	ctx := c.Request().Context()
	prof, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	profile.AppendNotes(prof, req.Notes)

	needs, err := s.Extractor.ExtractNeeds(ctx, "notes", models.SourceFreeForm, req.Notes)
	if err != nil {
		c.Logger().Errorf("Need extraction from notes failed: %v", err)
	}
	profile.AddNeeds(prof, needs)
	prof.UpdatedAt = time.Now().UTC()

	if err := s.Store.SaveProfile(ctx, userID, prof); err != nil {
		c.Logger().Errorf("Failed to save profile: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"needs_added": len(needs),
		"profile":     prof,
	})
}

// Matching handlers

func (s *Server) handleRunMatch(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	ctx := c.Request().Context()

	prof, err := s.Store.GetProfile(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	grants, err := s.Store.ListGrants(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if len(grants) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No grants uploaded yet"})
	}

	opts := match.Options{Workers: 4}
	if w, err := strconv.Atoi(c.QueryParam("workers")); err == nil && w > 0 && w <= 32 {
		opts.Workers = w
	}
	if tc, err := strconv.Atoi(c.QueryParam("tier_cap")); err == nil && tc > 0 && tc <= 100 {
		opts.TierCap = tc
	}

	run, err := match.Run(*prof, grants, time.Now().UTC(), opts)
	if err != nil {
		c.Logger().Errorf("Match run failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Match run failed"})
	}
	run.RunID = uuid.New()

	// Narrative explanations. AI mode asks the model per match and falls
	// back to the deterministic rendering; anything else uses the
	// deterministic rendering directly.
	useAI := c.QueryParam("explain") == "ai"
	for bi := range run.Buckets {
		for mi := range run.Buckets[bi].Matches {
			m := &run.Buckets[bi].Matches[mi]
			if useAI {
				m.Explanation = s.Extractor.ExplainMatch(ctx, prof.Facts, *m)
			} else {
				m.Explanation = ai.RenderExplanation(*m)
			}
		}
	}

	if err := s.Store.SaveMatchRun(ctx, userID, run); err != nil {
		c.Logger().Errorf("Failed to save match run: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save match run"})
	}

	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleListRuns(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	runs, err := s.Store.ListMatchRuns(c.Request().Context(), userID, limit)
	if err != nil {
		c.Logger().Errorf("Failed to list runs: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	if runs == nil {
		runs = []db.MatchRunSummary{}
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetRun(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid run ID"})
	}

	run, err := s.Store.GetMatchRun(c.Request().Context(), userID, runID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleExportRun(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid run ID"})
	}

	ctx := c.Request().Context()
	run, err := s.Store.GetMatchRun(ctx, userID, runID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	switch c.QueryParam("format") {
	case "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=matches-%s.csv", runID))
		c.Response().WriteHeader(http.StatusOK)
		return export.CSV(c.Response(), run)
	case "", "markdown":
		prof, err := s.Store.GetProfile(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(export.Markdown(run, prof.Facts.Name)))
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be markdown or csv"})
	}
}

// Shortlist handlers

type shortlistRequest struct {
	Note string `json:"note"`
}

func (s *Server) handleAddShortlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	grantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	var req shortlistRequest
	_ = c.Bind(&req) // note is optional

	if err := s.AuthService.AddToShortlist(ctx, userID, grantID, req.Note); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to shortlist grant"})
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleRemoveShortlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	grantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid grant ID"})
	}

	if err := s.AuthService.RemoveFromShortlist(ctx, userID, grantID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to remove from shortlist"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGetShortlist(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	entries, err := s.AuthService.GetShortlist(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch shortlist"})
	}
	if entries == nil {
		entries = []auth.ShortlistEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

// validateScanURL rejects URLs that would point the scanner at internal
// infrastructure. Returns (0, "") when the URL is acceptable.
func validateScanURL(raw string) (int, string) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return http.StatusBadRequest, "Invalid URL scheme"
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return http.StatusBadRequest, "URL host is required"
	}
	if host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".local") {
		return http.StatusForbidden, "Internal network access forbidden"
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return http.StatusBadRequest, "Unable to resolve URL host"
	}
	if len(ips) == 0 {
		return http.StatusBadRequest, "URL host resolved to no addresses"
	}
	for _, ip := range ips {
		if isPrivateOrSpecialIP(ip) {
			return http.StatusForbidden, "Internal network access forbidden"
		}
	}
	return 0, ""
}

func isPrivateOrSpecialIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1]&0xC0 == 64 {
			return true
		}
		if ip4[0] == 169 && ip4[1] == 254 {
			return true
		}
	}

	return false
}
