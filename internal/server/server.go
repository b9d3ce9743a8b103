// Package server exposes the observation wizard and school directory
// over HTTP for the browser form frontend.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/fieldbook/internal/ports/primary"
	"github.com/example/fieldbook/internal/version"
)

// Server wires the services into a gin router.
type Server struct {
	sessions  primary.SessionService
	directory primary.DirectoryService
	log       *zap.Logger
	router    *gin.Engine
}

// New creates a Server with all routes registered.
func New(sessions primary.SessionService, directory primary.DirectoryService, log *zap.Logger) *Server {
	s := &Server{
		sessions:  sessions,
		directory: directory,
		log:       log,
	}
	s.router = s.buildRouter()
	return s
}

// Run starts listening on addr, blocking until the server stops.
func (s *Server) Run(addr string) error {
	s.log.Info("starting http server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		directory := v1.Group("/directory")
		{
			directory.GET("/program-managers", s.listProgramManagers)
			directory.GET("/schools", s.listSchools)
			directory.POST("/schools", s.addSchool)
			directory.GET("/teachers", s.listTeachers)
			directory.POST("/teachers", s.addTeacher)
		}

		v1.GET("/observations", s.listObservations)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", s.startSession)
			sessions.GET("/:id", s.getSession)
			sessions.DELETE("/:id", s.discardSession)
			sessions.POST("/:id/basic-details", s.advanceBasicDetails)
			sessions.POST("/:id/teachers", s.advanceTeacherSelection)
			sessions.POST("/:id/observations", s.advanceClassroomObservation)
			sessions.POST("/:id/infrastructure", s.advanceInfrastructure)
			sessions.POST("/:id/community", s.advanceCommunity)
			sessions.POST("/:id/retreat", s.retreat)
			sessions.POST("/:id/media", s.attachMedia)
			sessions.POST("/:id/submit", s.submit)
		}
	}

	return r
}
