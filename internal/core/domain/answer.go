package domain

import "time"

// Match is a chunk returned by similarity search.
// It is produced fresh per query and never retained.
type Match struct {
	// Score is the similarity score reported by the vector store.
	Score float64 `json:"score"`

	// ChunkText is the text of the matched chunk.
	ChunkText string `json:"text"`

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int `json:"chunkIndex"`

	// DocumentURL is the source document of the chunk.
	DocumentURL string `json:"documentUrl"`
}

// Answer is the synthesizer's output for one query.
type Answer struct {
	// Text is the model-generated answer.
	Text string

	// Explanation summarises the retrieval that grounded the answer.
	// It is computed locally, not generated by the model.
	Explanation string
}

// AnswerRecord is the terminal artifact of a single query.
type AnswerRecord struct {
	Query            string    `json:"query"`
	Answer           string    `json:"answer"`
	Explanation      string    `json:"explanation"`
	RelevantSections []Match   `json:"relevantSections"`
	DocumentURL      string    `json:"documentUrl"`
	Namespace        string    `json:"namespace,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// QueryErrorPrefix prefixes inline error answers in batch results.
const QueryErrorPrefix = "Error processing query: "

// QueryOutcome is the result of one query inside a batch.
// Exactly one of Record and Err is set.
type QueryOutcome struct {
	Query  string
	Record *AnswerRecord
	Err    error
}

// OK returns true if the query produced an answer.
func (o QueryOutcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// Text returns the answer, or an inline error string for failed queries.
func (o QueryOutcome) Text() string {
	if o.Err != nil {
		return QueryErrorPrefix + o.Err.Error()
	}
	if o.Record == nil {
		return QueryErrorPrefix + "no answer produced"
	}
	return o.Record.Answer
}

// BatchResult is returned for a multi-question run over one document.
// Answers always has the same length and order as the input questions.
type BatchResult struct {
	Answers          []string       `json:"answers"`
	Outcomes         []QueryOutcome `json:"-"`
	DocumentURL      string         `json:"documentUrl"`
	Namespace        string         `json:"namespace,omitempty"`
	QueriesProcessed int            `json:"queriesProcessed"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Failed returns the number of queries that ended in an error.
func (r *BatchResult) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}
