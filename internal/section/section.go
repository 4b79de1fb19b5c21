package section

// Type classifies a section by its structural role in a document.
type Type string

const (
	TypeAbstract     Type = "abstract"
	TypeSummary      Type = "summary"
	TypeIntroduction Type = "introduction"
	TypeMethodology  Type = "methodology"
	TypeResults      Type = "results"
	TypeConclusion   Type = "conclusion"
	TypeGeneric      Type = "generic"
)

// Section is one contiguous, classified span of document text.
type Section struct {
	DocumentID string `json:"document_id"`
	PageNumber int    `json:"page_number"`
	Heading    string `json:"heading,omitempty"`
	Body       string `json:"body"`
	Type       Type   `json:"type"`
	// Ordinal is the corpus-wide ingestion index: documents in input order,
	// sections in document order. Ranking ties break on it.
	Ordinal int `json:"ordinal"`
}
