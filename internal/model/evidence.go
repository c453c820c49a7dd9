package model

// EvidenceSource is one monitoring stream that flagged an article
type EvidenceSource struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"` // Empty excludes the source from all output
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`             // Free-text match reason
	RawEvidence any    `json:"raw_evidence,omitempty" yaml:"raw_evidence,omitempty"` // Untyped rule engine payload
}

// Field identifies which article field a hit refers to
type Field int

const (
	FieldUnknown Field = iota // Not determinable; content for term highlighting only
	FieldTitle
	FieldContent
)

// ParseField maps a rule engine field name onto a Field
func ParseField(raw string) Field {
	switch raw {
	case "title":
		return FieldTitle
	case "content_text", "content":
		return FieldContent
	default:
		return FieldUnknown
	}
}

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldContent:
		return "content"
	default:
		return "unknown"
	}
}

// Hit kinds, used in marker and row identities
const (
	KindKeyword           = "keyword"
	KindRegex             = "regex"
	KindQuery             = "query"
	KindQueryExpression   = "query-expression"
	KindClassifier        = "classifier"
	KindClassifierFinding = "classifier-finding"
	KindClassifierSnippet = "classifier-snippet"
)

// Hit is a single normalized piece of match evidence.
// The set of implementations is closed to this package.
type Hit interface {
	Kind() string
	isHit()
}

// Spanning is implemented by hits that may carry a character span
type Spanning interface {
	Hit
	Span() (field Field, start, end *int)
}

// KeywordHit is a literal keyword occurrence
type KeywordHit struct {
	Field   Field
	Value   string
	Snippet string
	Start   *int
	End     *int
}

// RegexHit is a regular expression occurrence
type RegexHit struct {
	Field   Field
	Pattern string
	Value   string
	Snippet string
	Start   *int
	End     *int
}

// QueryHit is a token matched by a boolean query expression
type QueryHit struct {
	Field   Field
	Token   string
	Snippet string
	Start   *int
	End     *int
}

// QueryExpression marks that a boolean query expression matched, without spans
type QueryExpression struct {
	Expression string
}

// ClassifierFinding is one labelled finding reported by a classifier plugin
type ClassifierFinding struct {
	Label string
	Text  string
	Value string
	Field Field
	Start *int
	End   *int
	Score *float64
}

// ClassifierSummary describes the classifier verdict as a whole
type ClassifierSummary struct {
	Plugin     string
	Reason     string
	Confidence *float64
}

// ClassifierSnippet is a supporting text excerpt from a classifier
type ClassifierSnippet struct {
	Text string
}

func (KeywordHit) Kind() string        { return KindKeyword }
func (RegexHit) Kind() string          { return KindRegex }
func (QueryHit) Kind() string          { return KindQuery }
func (QueryExpression) Kind() string   { return KindQueryExpression }
func (ClassifierFinding) Kind() string { return KindClassifierFinding }
func (ClassifierSummary) Kind() string { return KindClassifier }
func (ClassifierSnippet) Kind() string { return KindClassifierSnippet }

func (KeywordHit) isHit()        {}
func (RegexHit) isHit()          {}
func (QueryHit) isHit()          {}
func (QueryExpression) isHit()   {}
func (ClassifierFinding) isHit() {}
func (ClassifierSummary) isHit() {}
func (ClassifierSnippet) isHit() {}

func (h KeywordHit) Span() (Field, *int, *int)        { return h.Field, h.Start, h.End }
func (h RegexHit) Span() (Field, *int, *int)          { return h.Field, h.Start, h.End }
func (h QueryHit) Span() (Field, *int, *int)          { return h.Field, h.Start, h.End }
func (h ClassifierFinding) Span() (Field, *int, *int) { return h.Field, h.Start, h.End }

// SourceHits pairs a source with its normalized hits, in evidence order
type SourceHits struct {
	Source EvidenceSource
	Hits   []Hit
}
