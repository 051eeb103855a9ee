// Package engine ranks the active job catalog against seeker profiles and
// free-text searches. It holds an immutable in-memory snapshot (lexical index,
// vector index, and job metadata) that readers score against lock-free;
// reindexing builds a fresh snapshot off to the side and swaps it in
// atomically.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-portal/internal/embedding"
	"github.com/jonathan/job-portal/internal/ingest"
	"github.com/jonathan/job-portal/internal/lexical"
	"github.com/jonathan/job-portal/internal/normalize"
	"github.com/jonathan/job-portal/internal/query"
	"github.com/jonathan/job-portal/internal/ranking"
	"github.com/jonathan/job-portal/internal/types"
	"github.com/jonathan/job-portal/internal/vector"
)

// embedConcurrency bounds parallel embedding calls during a reindex.
const embedConcurrency = 8

// embedRetryBackoff is the pause before the single embedding retry on a
// per-request timeout.
const embedRetryBackoff = 100 * time.Millisecond

// Options are the engine tunables.
type Options struct {
	Weights         ranking.Weights
	BM25            lexical.Params
	VectorFloor     float64
	MaxExplanations int
	RecommendLimit  int
}

// DefaultOptions returns the stock tunables.
func DefaultOptions() Options {
	return Options{
		Weights:         ranking.DefaultWeights(),
		BM25:            lexical.DefaultParams(),
		VectorFloor:     ranking.DefaultVectorFloor,
		MaxExplanations: 6,
		RecommendLimit:  20,
	}
}

// snapshot is one immutable generation of the index. Readers obtain it once
// per request and never see a partially built state.
type snapshot struct {
	jobs    map[string]*types.Job
	skills  map[string][]string // jobID -> normalized skills
	cleaned map[string]string   // jobID -> cleaned description
	lex     *lexical.Index
	vec     *vector.Index
	builtAt time.Time
}

// Engine scores ranking requests against the current snapshot.
type Engine struct {
	embedder embedding.Embedder
	builder  *query.Builder
	opts     Options

	reindexMu sync.Mutex // single writer
	snap      atomic.Pointer[snapshot]
}

// New creates an Engine. The engine serves ErrNotReady until the first
// successful Reindex.
func New(embedder embedding.Embedder, opts Options) *Engine {
	if opts.MaxExplanations < 1 {
		opts.MaxExplanations = DefaultOptions().MaxExplanations
	}
	if opts.RecommendLimit < 1 {
		opts.RecommendLimit = DefaultOptions().RecommendLimit
	}
	if opts.VectorFloor <= 0 {
		opts.VectorFloor = ranking.DefaultVectorFloor
	}
	if opts.BM25.K1 <= 0 {
		opts.BM25 = lexical.DefaultParams()
	}
	return &Engine{
		embedder: embedder,
		builder:  query.NewBuilder(embedder),
		opts:     opts,
	}
}

// NewWithTimeout creates an Engine whose per-request query embeddings are
// bounded by embedTimeout. Index-build embeddings are not bounded; a slow
// build is preferable to a failed one.
func NewWithTimeout(embedder embedding.Embedder, embedTimeout time.Duration, opts Options) *Engine {
	e := New(embedder, opts)
	e.builder = query.NewBuilder(embedding.WithTimeout(embedder, embedTimeout))
	return e
}

// Ready reports whether a snapshot has been built.
func (e *Engine) Ready() bool {
	return e.snap.Load() != nil
}

// Stats describes the current snapshot.
type Stats struct {
	Jobs    int       `json:"jobs"`
	Terms   int       `json:"terms"`
	Vectors int       `json:"vectors"`
	BuiltAt time.Time `json:"built_at"`
}

// Stats returns index statistics, or the zero value before the first build.
func (e *Engine) Stats() Stats {
	snap := e.snap.Load()
	if snap == nil {
		return Stats{}
	}
	s := Stats{
		Jobs:    len(snap.jobs),
		Terms:   snap.lex.Terms(),
		BuiltAt: snap.builtAt,
	}
	if snap.vec != nil {
		s.Vectors = snap.vec.Len()
	}
	return s
}

// Reindex builds a fresh snapshot from jobs and swaps it in. Only active
// postings are indexed. Concurrent calls serialize; readers keep scoring
// against the previous snapshot until the swap, and a failed build leaves
// the previous snapshot untouched.
func (e *Engine) Reindex(ctx context.Context, jobs []types.Job) error {
	e.reindexMu.Lock()
	defer e.reindexMu.Unlock()

	active := make([]*types.Job, 0, len(jobs))
	for i := range jobs {
		if jobs[i].Status == types.JobStatusActive {
			active = append(active, &jobs[i])
		}
	}
	if len(active) == 0 {
		return ErrEmptyCatalog
	}

	snap := &snapshot{
		jobs:    make(map[string]*types.Job, len(active)),
		skills:  make(map[string][]string, len(active)),
		cleaned: make(map[string]string, len(active)),
		builtAt: time.Now().UTC(),
	}

	lexDocs := make([]lexical.Document, len(active))
	embeddings := make([][]float32, len(active))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for i, job := range active {
		if _, dup := snap.jobs[job.ID]; dup {
			return fmt.Errorf("duplicate job ID in catalog: %s", job.ID)
		}
		snap.jobs[job.ID] = job
		snap.skills[job.ID] = normalize.Skills(job.Skills)
		snap.cleaned[job.ID] = ingest.CleanDescription(job.Description)

		docText := normalize.JoinChunks(
			job.Title,
			snap.cleaned[job.ID],
			strings.Join(snap.skills[job.ID], " "),
		)
		lexDocs[i] = lexical.Document{
			ID:     job.ID,
			Tokens: normalize.Tokenize(docText),
		}

		g.Go(func() error {
			vec, err := e.embedder.Embed(gCtx, docText)
			if err != nil {
				return fmt.Errorf("failed to embed job %s: %w", job.ID, err)
			}
			embeddings[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	lexIndex, err := lexical.New(lexDocs, e.opts.BM25)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	snap.lex = lexIndex

	vecDocs := make([]vector.Document, len(active))
	for i, job := range active {
		vecDocs[i] = vector.Document{ID: job.ID, Embedding: embeddings[i]}
	}
	vecIndex, err := vector.New(vecDocs)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	snap.vec = vecIndex

	e.snap.Store(snap)
	return nil
}

// snapshotOrErr loads the current snapshot.
func (e *Engine) snapshotOrErr() (*snapshot, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}
