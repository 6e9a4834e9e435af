package domain

// Document is a single web search hit. Identity is the URL (exact match).
type Document struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Reflection is the sufficiency judgment produced once per reflection round.
type Reflection struct {
	Slots      []string `json:"slots"`
	Filled     []string `json:"filled"`
	NeedMore   bool     `json:"need_more"`
	NewQueries []string `json:"new_queries"`
}

// Sufficient reports whether the reflection ends the loop:
// either no more information is needed or no follow-up queries were proposed.
func (r Reflection) Sufficient() bool {
	return !r.NeedMore || len(r.NewQueries) == 0
}
