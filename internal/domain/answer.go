package domain

// Status is the outcome tag of a pipeline run or a synthesis call.
type Status string

const (
	// StatusComplete marks a synthesized answer with normalized citations.
	StatusComplete Status = "complete"
	// StatusNeedMoreInfo marks an early exit with follow-up queries instead of an answer.
	// Not produced by this service; kept for clients of the wire format.
	StatusNeedMoreInfo Status = "need_more_info"
	// StatusIncomplete marks a synthesis whose model output could not be parsed
	// or whose answer was too vague to use.
	StatusIncomplete Status = "incomplete"
)

// Citation references a source document from an answer's bracket markers.
type Citation struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Synthesis is the raw result of the answer synthesis collaborator.
// On a degraded parse Status is StatusIncomplete and Answer holds the unparsed text.
type Synthesis struct {
	Status    Status
	Answer    string
	Citations []Citation
}

// Answer is the pipeline output record, serialized as-is to clients and to the cache.
type Answer struct {
	Status     Status     `json:"status"`
	Answer     string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	NewQueries []string   `json:"new_queries,omitempty"`
}
