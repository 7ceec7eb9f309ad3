package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Plan tree
	s.router.Get("/api/programs", s.handleListPrograms)
	s.router.Post("/api/programs", s.handleCreateProgram)
	s.router.Get("/api/programs/{id}/full", s.handleGetProgramFull)
	s.router.Delete("/api/programs/{id}", s.handleDeleteProgram)
	s.router.Post("/api/weeks", s.handleCreateWeek)
	s.router.Delete("/api/weeks/{id}", s.handleDeleteWeek)
	s.router.Post("/api/days", s.handleCreateDay)
	s.router.Delete("/api/days/{id}", s.handleDeleteDay)
	s.router.Get("/api/days/{id}/full", s.handleGetDayFull)
	s.router.Post("/api/days/{id}/reorder", s.handleReorderExercises)

	// Exercises
	s.router.Post("/api/exercises", s.handleCreateExercise)
	s.router.Patch("/api/exercises/{id}", s.handlePatchExercise)
	s.router.Delete("/api/exercises/{id}", s.handleDeleteExercise)

	// Workout history
	s.router.Post("/api/workouts", s.handleSaveWorkout)
	s.router.Get("/api/workouts", s.handleRecentWorkouts)
}
