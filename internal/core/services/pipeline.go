package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineDeps holds the collaborators of a PipelineService.
type PipelineDeps struct {
	Source     driven.DocumentSource
	Extractors driven.ExtractorRegistry
	Chunker    driven.Chunker
	Embedder   *EmbeddingBatcher
	Vectors    *VectorStoreAdapter
	Answers    *AnswerSynthesizer

	// Runs memoizes processed documents. Nil disables memoization, so every
	// query processes its document into a fresh namespace.
	Runs driven.RunCache

	// TopK is the number of matches retrieved per query. Zero uses DefaultTopK.
	TopK int
}

// PipelineService runs documents and questions through the retrieval pipeline.
// Each request runs its steps sequentially.
type PipelineService struct {
	source     driven.DocumentSource
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	embedder   *EmbeddingBatcher
	vectors    *VectorStoreAdapter
	answers    *AnswerSynthesizer
	runs       driven.RunCache
	topK       int
	now        func() time.Time

	nsMu       sync.Mutex
	lastMillis int64
}

// NewPipelineService creates a pipeline from its collaborators.
func NewPipelineService(deps PipelineDeps) (*PipelineService, error) {
	switch {
	case deps.Source == nil:
		return nil, fmt.Errorf("%w: document source is required", domain.ErrConfiguration)
	case deps.Extractors == nil:
		return nil, fmt.Errorf("%w: extractor registry is required", domain.ErrConfiguration)
	case deps.Chunker == nil:
		return nil, fmt.Errorf("%w: chunker is required", domain.ErrConfiguration)
	case deps.Embedder == nil:
		return nil, fmt.Errorf("%w: embedding batcher is required", domain.ErrConfiguration)
	case deps.Vectors == nil:
		return nil, fmt.Errorf("%w: vector store adapter is required", domain.ErrConfiguration)
	case deps.Answers == nil:
		return nil, fmt.Errorf("%w: answer synthesizer is required", domain.ErrConfiguration)
	}

	topK := deps.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &PipelineService{
		source:     deps.Source,
		extractors: deps.Extractors,
		chunker:    deps.Chunker,
		embedder:   deps.Embedder,
		vectors:    deps.Vectors,
		answers:    deps.Answers,
		runs:       deps.Runs,
		topK:       topK,
		now:        time.Now,
	}, nil
}

// ProcessDocument fetches, extracts, chunks, embeds and stores a document.
func (s *PipelineService) ProcessDocument(
	ctx context.Context, url string, docType domain.DocumentType, namespace string,
) (*domain.ProcessResult, error) {
	ref, err := newDocumentRef(url, docType)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = s.newNamespace()
	}

	run, err := s.runDocument(ctx, ref, namespace)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, run)

	return domain.NewProcessResult(run), nil
}

// ProcessQuery answers one question against a document.
func (s *PipelineService) ProcessQuery(
	ctx context.Context, query, url string, docType domain.DocumentType,
) (*domain.AnswerRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	ref, err := newDocumentRef(url, docType)
	if err != nil {
		return nil, err
	}

	sess, err := s.openSession(ctx, ref)
	if err != nil {
		return nil, err
	}
	return sess.answer(ctx, query)
}

// ProcessMultipleQueries answers several questions against one document.
// The document is processed at most once. A failing question yields an
// inline error answer and does not stop the others. Failing to process the
// document fails the batch.
func (s *PipelineService) ProcessMultipleQueries(
	ctx context.Context, queries []string, url string, docType domain.DocumentType,
) (*domain.BatchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: at least one query is required", domain.ErrInvalidInput)
	}
	ref, err := newDocumentRef(url, docType)
	if err != nil {
		return nil, err
	}

	sess, err := s.openSession(ctx, ref)
	if err != nil {
		return nil, err
	}

	logger.Section("Batch Queries")
	defer logger.Timed(fmt.Sprintf("%d queries", len(queries)))()
	outcomes := foldQueries(queries, func(i int, query string) (*domain.AnswerRecord, error) {
		logger.Debug("Query %d/%d: %q", i+1, len(queries), query)
		if strings.TrimSpace(query) == "" {
			return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
		}
		return sess.answer(ctx, query)
	})
	if sess.err != nil {
		return nil, sess.err
	}

	answers := make([]string, len(outcomes))
	for i, o := range outcomes {
		answers[i] = o.Text()
		if !o.OK() {
			logger.Warn("Query %d failed (%s): %v", i+1, domain.KindOf(o.Err), o.Err)
		}
	}

	return &domain.BatchResult{
		Answers:          answers,
		Outcomes:         outcomes,
		DocumentURL:      ref.URL,
		Namespace:        sess.run.Namespace,
		QueriesProcessed: len(outcomes),
		Timestamp:        s.now(),
	}, nil
}

// SearchChunks returns the chunks in namespace most similar to query.
func (s *PipelineService) SearchChunks(
	ctx context.Context, query, namespace string, topK int,
) ([]domain.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if namespace == "" {
		namespace = DefaultSearchNamespace
	}
	if topK <= 0 {
		topK = s.topK
	}

	vector, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.vectors.Query(ctx, namespace, vector, topK)
}

// DeleteNamespace removes a namespace from the vector store.
func (s *PipelineService) DeleteNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return fmt.Errorf("%w: namespace is required", domain.ErrInvalidInput)
	}
	return s.vectors.DeleteNamespace(ctx, namespace)
}

// foldQueries runs fn over every query and collects one outcome per query,
// in order. Errors are captured, never returned.
func foldQueries(
	queries []string, fn func(i int, query string) (*domain.AnswerRecord, error),
) []domain.QueryOutcome {
	outcomes := make([]domain.QueryOutcome, len(queries))
	for i, q := range queries {
		record, err := fn(i, q)
		outcomes[i] = domain.QueryOutcome{Query: q, Record: record, Err: err}
	}
	return outcomes
}

// session answers queries against one document run. A memoized run whose
// namespace has gone from the store is replaced by a fresh run, once.
type session struct {
	svc    *PipelineService
	ref    domain.DocumentRef
	run    *domain.DocumentRun
	cached bool

	// err is set when reprocessing a stale run failed. Later queries fail with it.
	err error
}

func (s *PipelineService) openSession(ctx context.Context, ref domain.DocumentRef) (*session, error) {
	run, cached, err := s.readyRun(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &session{svc: s, ref: ref, run: run, cached: cached}, nil
}

func (q *session) answer(ctx context.Context, query string) (*domain.AnswerRecord, error) {
	if q.err != nil {
		return nil, q.err
	}
	record, err := q.svc.answer(ctx, query, q.run)
	if err == nil || !q.cached || !errors.Is(err, domain.ErrNotFound) {
		return record, err
	}

	logger.Warn("Namespace %q for %s no longer exists, reprocessing", q.run.Namespace, q.ref.URL)
	q.cached = false
	q.svc.forget(ctx, q.ref)
	run, _, err := q.svc.readyRun(ctx, q.ref)
	if err != nil {
		q.err = err
		return nil, err
	}
	q.run = run
	return q.svc.answer(ctx, query, q.run)
}

// readyRun returns a Ready run for ref, reusing a memoized one when possible.
// cached reports whether the run came from the run cache.
func (s *PipelineService) readyRun(ctx context.Context, ref domain.DocumentRef) (*domain.DocumentRun, bool, error) {
	if s.runs != nil {
		run, err := s.runs.Get(ctx, ref.Key())
		switch {
		case err == nil && run.IsReady():
			logger.Debug("Reusing namespace %q for %s", run.Namespace, ref.URL)
			return run, true, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Run cache lookup failed for %s: %v", ref.URL, err)
		}
	}

	run, err := s.runDocument(ctx, ref, s.newNamespace())
	if err != nil {
		return nil, false, err
	}
	s.remember(ctx, run)
	return run, false, nil
}

// runDocument processes ref into namespace.
func (s *PipelineService) runDocument(
	ctx context.Context, ref domain.DocumentRef, namespace string,
) (*domain.DocumentRun, error) {
	logger.Section("Document Processing")
	defer logger.Timed("processing " + ref.URL)()
	run := &domain.DocumentRun{Namespace: namespace, Document: ref}

	run.Stage = domain.RunStageFetching
	logger.Debug("[%s] %s", run.Stage, ref.URL)
	content, err := s.source.Fetch(ctx, ref.URL)
	if err != nil {
		return nil, stageError(run.Stage, ensureKind(err, domain.ErrFetch))
	}

	run.Stage = domain.RunStageExtracting
	logger.Debug("[%s] %d bytes as %s", run.Stage, len(content), ref.Type)
	text, err := s.extractors.Extract(ctx, content, ref.Type)
	if err != nil {
		return nil, stageError(run.Stage, ensureKind(err, domain.ErrExtraction))
	}

	run.Stage = domain.RunStageChunking
	logger.Debug("[%s] %d characters", run.Stage, len(text))
	chunks, err := s.chunker.Chunk(ctx, text, ref)
	if err != nil {
		return nil, stageError(run.Stage, err)
	}
	run.Chunks = len(chunks)
	if len(chunks) == 0 {
		logger.Warn("Document %s produced no chunks", ref.URL)
	}

	run.Stage = domain.RunStageEmbedding
	logger.Debug("[%s] %d chunks", run.Stage, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, stageError(run.Stage, err)
	}
	run.Embeddings = len(vectors)

	run.Stage = domain.RunStageStoring
	logger.Debug("[%s] namespace %q", run.Stage, namespace)
	stored, err := s.vectors.Upsert(ctx, namespace, chunks, vectors)
	if err != nil {
		return nil, stageError(run.Stage, err)
	}
	run.Stored = stored

	run.Stage = domain.RunStageReady
	run.CompletedAt = s.now()
	logger.Info("Processed %s: %d chunks stored in %q", ref.URL, stored, namespace)
	return run, nil
}

// answer runs one query against a Ready document run.
func (s *PipelineService) answer(
	ctx context.Context, query string, run *domain.DocumentRun,
) (*domain.AnswerRecord, error) {
	stage := domain.QueryStageEmbedding
	vector, err := s.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, stageError(stage, err)
	}

	stage = domain.QueryStageRetrieving
	matches, err := s.vectors.Query(ctx, run.Namespace, vector, s.topK)
	if err != nil {
		return nil, stageError(stage, err)
	}
	logger.Debug("[%s] %d matches in %q", stage, len(matches), run.Namespace)

	stage = domain.QueryStageSynthesizing
	answer, err := s.answers.Synthesize(ctx, query, matches)
	if err != nil {
		return nil, stageError(stage, err)
	}

	logger.Debug("[%s] %q", domain.QueryStageDone, query)
	return &domain.AnswerRecord{
		Query:            query,
		Answer:           answer.Text,
		Explanation:      answer.Explanation,
		RelevantSections: matches,
		DocumentURL:      run.Document.URL,
		Namespace:        run.Namespace,
		Timestamp:        s.now(),
	}, nil
}

func (s *PipelineService) remember(ctx context.Context, run *domain.DocumentRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Put(ctx, run.Document.Key(), run); err != nil {
		logger.Warn("Failed to cache run for %s: %v", run.Document.URL, err)
	}
}

func (s *PipelineService) forget(ctx context.Context, ref domain.DocumentRef) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Delete(ctx, ref.Key()); err != nil {
		logger.Warn("Failed to drop cached run for %s: %v", ref.URL, err)
	}
}

// newNamespace returns a fresh time-derived namespace, distinct from the
// previous one even when two runs start within the same millisecond.
func (s *PipelineService) newNamespace() string {
	s.nsMu.Lock()
	defer s.nsMu.Unlock()

	millis := max(s.now().UnixMilli(), s.lastMillis+1)
	s.lastMillis = millis
	return NewNamespace(time.UnixMilli(millis))
}

func newDocumentRef(url string, docType domain.DocumentType) (domain.DocumentRef, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.DocumentRef{}, fmt.Errorf("%w: document URL is required", domain.ErrInvalidInput)
	}
	if docType == "" {
		docType = domain.DefaultDocumentType
	}
	if !docType.IsValid() {
		return domain.DocumentRef{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, docType)
	}
	return domain.DocumentRef{URL: url, Type: docType}, nil
}

// stageError annotates err with the stage it occurred in.
// The error kind is preserved.
func stageError(stage fmt.Stringer, err error) error {
	return fmt.Errorf("%s: %w", stage, err)
}

// ensureKind wraps err with kind unless it already carries a pipeline kind.
func ensureKind(err, kind error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
