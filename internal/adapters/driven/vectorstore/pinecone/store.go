// Package pinecone provides a VectorStore backed by a Pinecone index.
//
// Only the data plane is used: the index must already exist and its host
// is supplied by configuration.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.Pinger      = (*Store)(nil)
)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultBatchSize = 100
)

// Metadata keys stored with every vector.
const (
	keyDocumentURL  = "documentUrl"
	keyDocumentType = "documentType"
	keyChunkIndex   = "chunkIndex"
	keyText         = "text"
	keyTotalChunks  = "totalChunks"
	keyTimestamp    = "timestamp"
)

// Config holds configuration for the Pinecone store.
type Config struct {
	// Host is the index host, e.g. my-index-abc123.svc.pinecone.io (required).
	Host string

	// APIKey is the Pinecone API key (required).
	APIKey string

	// BatchSize is the number of vectors per upsert request (default: 100).
	BatchSize int

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration
}

// indexConn is the part of *pinecone.IndexConnection the store uses.
type indexConn interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	DeleteAllVectorsInNamespace(ctx context.Context) error
	DescribeIndexStats(ctx context.Context) (*pinecone.DescribeIndexStatsResponse, error)
	Close() error
}

// dialFunc opens a connection to the index scoped to one namespace.
type dialFunc func(namespace string) (indexConn, error)

// Store talks to a Pinecone index through the official client.
// Connections are opened per namespace and reused until Close.
type Store struct {
	host      string
	batchSize int
	timeout   time.Duration
	dial      dialFunc

	mu    sync.Mutex
	conns map[string]indexConn
}

// NewStore creates a Pinecone store. No request is made until first use.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: pinecone host is required", domain.ErrConfiguration)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: pinecone API key is required", domain.ErrConfiguration)
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("%w: pinecone client: %w", domain.ErrConfiguration, err)
	}

	host := strings.TrimRight(cfg.Host, "/")
	dial := func(namespace string) (indexConn, error) {
		conn, err := client.Index(pinecone.NewIndexConnParams{Host: host, Namespace: namespace})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return newStore(host, cfg, dial), nil
}

func newStore(host string, cfg Config, dial dialFunc) *Store {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		host:      host,
		batchSize: cfg.BatchSize,
		timeout:   cfg.Timeout,
		dial:      dial,
		conns:     make(map[string]indexConn),
	}
}

// Host returns the index host.
func (s *Store) Host() string {
	return s.host
}

// Upsert writes records in batches of the configured size.
func (s *Store) Upsert(ctx context.Context, ns string, records []driven.VectorRecord) error {
	conn, err := s.conn(ns)
	if err != nil {
		return err
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))

		batch := make([]*pinecone.Vector, 0, end-start)
		for _, r := range records[start:end] {
			metadata, err := toMetadata(r.Metadata)
			if err != nil {
				return fmt.Errorf("record %s metadata: %w", r.ID, err)
			}
			values := r.Values
			batch = append(batch, &pinecone.Vector{Id: r.ID, Values: &values, Metadata: metadata})
		}

		err := s.call(ctx, func(ctx context.Context) error {
			_, err := conn.UpsertVectors(ctx, batch)
			return err
		})
		if err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// Query returns the topK nearest records with their metadata.
// An empty result from a namespace the index does not know is domain.ErrNotFound.
func (s *Store) Query(ctx context.Context, ns string, values []float32, topK int) ([]driven.VectorMatch, error) {
	conn, err := s.conn(ns)
	if err != nil {
		return nil, err
	}

	var resp *pinecone.QueryVectorsResponse
	err = s.call(ctx, func(ctx context.Context) error {
		var qerr error
		resp, qerr = conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
			Vector:          values,
			TopK:            uint32(max(topK, 0)),
			IncludeMetadata: true,
		})
		return qerr
	})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	if resp == nil || len(resp.Matches) == 0 {
		exists, err := s.hasNamespace(ctx, conn, ns)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("pinecone: namespace %q: %w", ns, domain.ErrNotFound)
		}
		return []driven.VectorMatch{}, nil
	}

	matches := make([]driven.VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		matches = append(matches, driven.VectorMatch{
			ID:       m.Vector.Id,
			Score:    float64(m.Score),
			Metadata: fromMetadata(m.Vector.Metadata),
		})
	}
	return matches, nil
}

// DeleteNamespace removes every vector in ns.
func (s *Store) DeleteNamespace(ctx context.Context, ns string) error {
	conn, err := s.conn(ns)
	if err != nil {
		return err
	}
	if err := s.call(ctx, conn.DeleteAllVectorsInNamespace); err != nil {
		return fmt.Errorf("delete namespace %s: %w", ns, err)
	}
	return nil
}

// Ping checks the index is reachable with the given key.
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.conn("")
	if err != nil {
		return err
	}
	return s.call(ctx, func(ctx context.Context) error {
		_, err := conn.DescribeIndexStats(ctx)
		return err
	})
}

// Close closes every open connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for ns, conn := range s.conns {
		errs = append(errs, conn.Close())
		delete(s.conns, ns)
	}
	return errors.Join(errs...)
}

func (s *Store) conn(ns string) (indexConn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn, ok := s.conns[ns]; ok {
		return conn, nil
	}
	conn, err := s.dial(ns)
	if err != nil {
		return nil, fmt.Errorf("pinecone: connect to %s: %w", s.host, err)
	}
	s.conns[ns] = conn
	return conn, nil
}

func (s *Store) hasNamespace(ctx context.Context, conn indexConn, ns string) (bool, error) {
	var stats *pinecone.DescribeIndexStatsResponse
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		stats, err = conn.DescribeIndexStats(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("describe index stats: %w", err)
	}
	if stats == nil {
		return false, nil
	}
	_, ok := stats.Namespaces[ns]
	return ok, nil
}

// call runs fn under the request timeout and maps gRPC not-found to domain.ErrNotFound.
func (s *Store) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("pinecone: %w: %w", domain.ErrNotFound, err)
	}
	return fmt.Errorf("pinecone: %w", err)
}

func toMetadata(m driven.RecordMetadata) (*pinecone.Metadata, error) {
	return structpb.NewStruct(map[string]any{
		keyDocumentURL:  m.DocumentURL,
		keyDocumentType: m.DocumentType,
		keyChunkIndex:   m.ChunkIndex,
		keyText:         m.Text,
		keyTotalChunks:  m.TotalChunks,
		keyTimestamp:    m.Timestamp,
	})
}

// fromMetadata reads stored metadata. Pinecone returns every number as a double.
func fromMetadata(md *pinecone.Metadata) driven.RecordMetadata {
	fields := md.GetFields()
	return driven.RecordMetadata{
		DocumentURL:  fields[keyDocumentURL].GetStringValue(),
		DocumentType: fields[keyDocumentType].GetStringValue(),
		ChunkIndex:   int(fields[keyChunkIndex].GetNumberValue()),
		Text:         fields[keyText].GetStringValue(),
		TotalChunks:  int(fields[keyTotalChunks].GetNumberValue()),
		Timestamp:    fields[keyTimestamp].GetStringValue(),
	}
}
