package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autograph-kg/autograph/internal/catalog"
	"github.com/autograph-kg/autograph/internal/ensemble"
	"github.com/autograph-kg/autograph/internal/graph"
	"github.com/autograph-kg/autograph/internal/linker"
	"github.com/autograph-kg/autograph/internal/model"
	"github.com/autograph-kg/autograph/internal/ontology"
	"github.com/autograph-kg/autograph/internal/pipeline"
)

// Server exposes the resolution engine over HTTP.
type Server struct {
	Engine   *pipeline.Engine
	Linker   *linker.Linker
	Combiner *ensemble.Combiner
	Mapper   *ontology.Mapper
	Ontology *ontology.Ontology
	Store    *catalog.Store
	Writer   *graph.Writer // nil when persistence is disabled
	Logger   *zap.Logger
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.GET("/stats", s.Stats)
	r.POST("/process", s.Process)
	r.POST("/process/batch", s.ProcessBatch)
	r.POST("/link", s.Link)
	r.POST("/relations/combine", s.CombineRelations)
	r.POST("/catalogs/reload", s.ReloadCatalogs)
	r.GET("/ontology/validate", s.ValidateOntology)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Process(c *gin.Context) {
	var doc model.DocumentInput
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := s.Engine.ProcessDocument(c.Request.Context(), doc)
	if err != nil {
		s.Logger.Error("document processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process document"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type BatchRequest struct {
	Documents []model.DocumentInput `json:"documents"`
}

func (s *Server) ProcessBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result := s.Engine.ProcessBatch(c.Request.Context(), req.Documents)
	c.JSON(http.StatusOK, result)
}

type LinkRequest struct {
	Mention model.Mention `json:"mention"`
	Domain  string        `json:"domain"`
	Context string        `json:"context"`
}

func (s *Server) Link(c *gin.Context) {
	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entity := s.Linker.Link(c.Request.Context(), req.Mention, req.Domain, req.Context)
	c.JSON(http.StatusOK, entity)
}

type CombineRequest struct {
	Rule []model.RelationCandidate `json:"rule"`
	ML   []model.RelationCandidate `json:"ml"`
}

func (s *Server) CombineRelations(c *gin.Context) {
	var req CombineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"relations": s.Combiner.Combine(req.Rule, req.ML)})
}

func (s *Server) ReloadCatalogs(c *gin.Context) {
	if err := s.Store.Reload(); err != nil {
		s.Logger.Error("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reload catalogs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reloaded", "catalogs": len(s.Store.Catalogs())})
}

func (s *Server) ValidateOntology(c *gin.Context) {
	valid, issues := ontology.Validate(s.Ontology)
	if issues == nil {
		issues = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid, "issues": issues})
}

func (s *Server) Stats(c *gin.Context) {
	stats := gin.H{"catalogs": s.Store.Catalogs()}
	if s.Writer != nil {
		entities, relations, err := s.Writer.Stats(c.Request.Context())
		if err != nil {
			s.Logger.Warn("graph stats unavailable", zap.Error(err))
		} else {
			stats["graph_entities"] = entities
			stats["graph_relations"] = relations
		}
	}
	c.JSON(http.StatusOK, stats)
}
