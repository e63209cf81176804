package domain

// RunStage is a step of the document processing state machine.
type RunStage string

// Document run stages, in execution order.
const (
	RunStageFetching   RunStage = "fetching"
	RunStageExtracting RunStage = "extracting"
	RunStageChunking   RunStage = "chunking"
	RunStageEmbedding  RunStage = "embedding"
	RunStageStoring    RunStage = "storing"
	RunStageReady      RunStage = "ready"
)

// String returns the string representation.
func (s RunStage) String() string {
	return string(s)
}

// QueryStage is a step of the per-query state machine.
type QueryStage string

// Query stages, in execution order.
const (
	QueryStageEmbedding    QueryStage = "embedding_query"
	QueryStageRetrieving   QueryStage = "retrieving"
	QueryStageSynthesizing QueryStage = "synthesizing"
	QueryStageDone         QueryStage = "done"
)

// String returns the string representation.
func (s QueryStage) String() string {
	return string(s)
}
