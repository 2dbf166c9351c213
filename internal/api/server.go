package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/course-compass/backend/internal/catalog"
	"github.com/course-compass/backend/internal/recommender"
	"github.com/course-compass/backend/internal/search"
)

// CourseSource supplies the catalog records a reindex pulls in.
type CourseSource interface {
	Courses() ([]catalog.Course, error)
}

type Server struct {
	Engine *recommender.Engine
	Source CourseSource
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *recommender.Engine, source CourseSource, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Source: source,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("POST /api/v1/search", s.handleSearch)
	s.Router.HandleFunc("GET /api/v1/courses/{code}", s.handleCourse)
	s.Router.HandleFunc("GET /api/v1/similar/{code}", s.handleSimilar)
	s.Router.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.Router.HandleFunc("GET /api/v1/examples", s.handleExamples)
	s.Router.HandleFunc("POST /api/v1/reindex", s.handleReindex)
}

func (s *Server) Start(port string) error {
	s.Logger.Infof("Starting API Server on %s", port)
	return http.ListenAndServe(port, s.Router)
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type SearchResponse struct {
	Query        string               `json:"query"`
	Results      []recommender.Result `json:"results"`
	TotalResults int                  `json:"total_results"`
}

type SimilarResponse struct {
	CourseCode     string               `json:"course_code"`
	SimilarCourses []recommender.Result `json:"similar_courses"`
}

type StatusResponse struct {
	Status string            `json:"status"`
	Info   recommender.Stats `json:"info"`
}

type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

type ReindexResponse struct {
	Status  string `json:"status"`
	Courses int    `json:"courses"`
}

// Handlers

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	results, err := s.Engine.Search(req.Query, req.TopK)
	if err != nil {
		s.queryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, SearchResponse{
		Query:        req.Query,
		Results:      results,
		TotalResults: len(results),
	})
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.Engine.Get(r.PathValue("code"))
	if err != nil {
		s.queryError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, course)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	topK := 0
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "top_k must be an integer"})
			return
		}
		topK = parsed
	}

	results, err := s.Engine.SimilarTo(code, topK)
	if err != nil {
		s.queryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, SimilarResponse{
		CourseCode:     code,
		SimilarCourses: results,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()
	status := "ready"
	if !stats.Indexed {
		status = "not_initialized"
	}
	jsonResponse(w, http.StatusOK, StatusResponse{Status: status, Info: stats})
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, ExamplesResponse{Examples: s.Engine.Examples()})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	courses, err := s.Source.Courses()
	if err != nil {
		s.Logger.WithError(err).Error("Failed to load catalog for reindex")
		jsonResponse(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	if err := s.Engine.Rebuild(courses); err != nil {
		s.Logger.WithError(err).Error("Reindex failed, previous index still serving")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	jsonResponse(w, http.StatusOK, ReindexResponse{Status: "reindexed", Courses: len(courses)})
}

// queryError maps engine errors onto HTTP statuses: bad input is the
// caller's fault, a missing course is 404, an unbuilt index means the
// service is not ready yet.
func (s *Server) queryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommender.ErrEmptyQuery):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query is required"})
	case errors.Is(err, search.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: "Course not found"})
	case errors.Is(err, recommender.ErrNotReady):
		jsonResponse(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Index not built yet"})
	default:
		s.Logger.WithError(err).Error("Query failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
