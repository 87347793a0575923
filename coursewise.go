// Package coursewise provides a course recommendation engine built on
// vector similarity search.
//
// Example usage:
//
//	store, _ := coursewise.NewStore("data/courses.db", 768)
//	embedder := coursewise.NewOllamaEmbedder(coursewise.EmbedderConfig{
//	    Model: "nomic-embed-text",
//	})
//	engine, _ := coursewise.NewEngine(store, embedder, coursewise.EngineOptions{
//	    Threshold: 0.3,
//	})
//	result, err := engine.Recommend(ctx, coursewise.Query{
//	    Text:  "become a data engineer",
//	    Limit: 10,
//	})
package coursewise

import (
	"github.com/coursewise/coursewise/advisor"
	"github.com/coursewise/coursewise/analytics"
	"github.com/coursewise/coursewise/catalog"
	"github.com/coursewise/coursewise/embed"
	"github.com/coursewise/coursewise/learningpath"
	"github.com/coursewise/coursewise/recommend"
	"github.com/coursewise/coursewise/scoring"
	"github.com/coursewise/coursewise/server"
)

// Catalog aliases
type (
	Course     = catalog.Course
	Entry      = catalog.Entry
	Store      = catalog.Store
	SkillLevel = catalog.SkillLevel
	Modality   = catalog.Modality
)

// Skill levels
const (
	LevelBeginner     = catalog.LevelBeginner
	LevelIntermediate = catalog.LevelIntermediate
	LevelAdvanced     = catalog.LevelAdvanced
	LevelExpert       = catalog.LevelExpert
)

// NewStore opens a catalog store for the given DSN. postgres:// URLs use
// pgvector, anything else is treated as a SQLite file path.
func NewStore(dsn string, dimension int) (Store, error) {
	return catalog.NewStore(dsn, dimension)
}

// NewMemoryStore creates an in-memory catalog store.
func NewMemoryStore() *catalog.MemoryStore {
	return catalog.NewMemoryStore()
}

// Embedding aliases
type (
	Embedder       = embed.Embedder
	EmbedderConfig = embed.Config
)

// NewEmbedder picks an embedding client by provider name: "ollama",
// "openai", or "watsonx".
func NewEmbedder(provider string, cfg EmbedderConfig) (Embedder, error) {
	return embed.NewEmbedder(provider, cfg)
}

// NewOllamaEmbedder creates a client for Ollama's native embedding API.
func NewOllamaEmbedder(cfg EmbedderConfig) *embed.OllamaClient {
	return embed.NewOllamaClient(cfg)
}

// Engine aliases
type (
	Engine        = recommend.Engine
	EngineOptions = recommend.Options
	Query         = recommend.Query
	Result        = recommend.Result
	Diagnostics   = recommend.Diagnostics
)

// NewEngine creates a recommendation engine.
func NewEngine(store Store, embedder Embedder, opts EngineOptions) (*Engine, error) {
	return recommend.New(store, embedder, opts)
}

// Scoring aliases
type (
	Filters   = scoring.Filters
	Weights   = scoring.Weights
	Candidate = scoring.Candidate
)

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return scoring.DefaultWeights()
}

// Learning path aliases
type (
	Path        = learningpath.Path
	Step        = learningpath.Step
	GapAnalysis = learningpath.GapAnalysis
)

// Analytics aliases
type AnalyticsSummary = analytics.Summary

// Advisor aliases
type (
	Advisor       = advisor.Advisor
	AdvisorConfig = advisor.Config
)

// NewOpenAIAdvisor creates a chat-backed course advisor.
func NewOpenAIAdvisor(cfg AdvisorConfig) *advisor.OpenAIAdvisor {
	return advisor.NewOpenAIAdvisor(cfg)
}

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// NewServer creates the HTTP API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	return server.New(cfg)
}
