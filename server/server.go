// Package server exposes the travel agent over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/boat-builder/travelpod"
	"github.com/gin-gonic/gin"
)

const (
	defaultConversationLimit = 20
	maxConversationLimit     = 100
)

// Service is the part of travelpod.Pod the handlers call.
type Service interface {
	Answer(ctx context.Context, query string) (string, error)
	RunTool(ctx context.Context, name string, place string) (string, error)
	Tools() []travelpod.ToolInfo
	Conversations(ctx context.Context, limit int, offset int) ([]travelpod.Conversation, error)
}

var _ Service = &travelpod.Pod{}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type QueryResponse struct {
	Answer string `json:"answer"`
}

type ToolRequest struct {
	Place string `json:"place"`
}

type ToolResponse struct {
	Tool   string `json:"tool"`
	Result string `json:"result"`
}

type Server struct {
	router  *gin.Engine
	service Service
	logger  *slog.Logger
}

// New builds the router. Call gin.SetMode before New to change the gin mode.
func New(service Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  logger,
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.health)
	s.router.POST("/query", s.query)

	tools := s.router.Group("/tools")
	{
		tools.GET("", s.listTools)
		tools.POST("/:name", s.runTool)
	}

	s.router.GET("/conversations", s.listConversations)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.service.Answer(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, travelpod.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Error answering query", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, QueryResponse{Answer: answer})
}

func (s *Server) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Tools())
}

func (s *Server) runTool(c *gin.Context) {
	name := c.Param("name")
	var req ToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.service.RunTool(c.Request.Context(), name, req.Place)
	if err != nil {
		var retErr *travelpod.RetryableError
		switch {
		case errors.Is(err, travelpod.ErrToolNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.As(err, &retErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			s.logger.Error("Error running tool", "tool", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, ToolResponse{Tool: name, Result: result})
}

func (s *Server) listConversations(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultConversationLimit)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	conversations, err := s.service.Conversations(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, travelpod.ErrStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("Error listing conversations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
