// Package feedback defines the scoring reply schema and turns untrusted
// reply text into validated Feedback values.
package feedback

// Tip type values.
const (
	TipGood    = "good"
	TipImprove = "improve"
)

// Tip is one strength or improvement note attached to a category.
// Explanation is a pointer because the external schema makes it optional for
// ATS tips only; it stays required for every other category.
type Tip struct {
	Type        string  `json:"type"`
	Tip         string  `json:"tip"`
	Explanation *string `json:"explanation,omitempty"`
}

// Category carries a 0-100 score and its ordered tips.
type Category struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// Feedback is the fixed-shape analysis result. JSON field names follow the
// external schema exactly, including the upper-case ATS key.
type Feedback struct {
	OverallScore int      `json:"overallScore"`
	ATS          Category `json:"ATS"`
	ToneAndStyle Category `json:"toneAndStyle"`
	Content      Category `json:"content"`
	Structure    Category `json:"structure"`
	Skills       Category `json:"skills"`
}

// Zero returns the draft placeholder: all scores zero, all tip lists empty.
// Tips marshal as [] rather than null.
func Zero() Feedback {
	zeroCategory := func() Category { return Category{Score: 0, Tips: []Tip{}} }
	return Feedback{
		OverallScore: 0,
		ATS:          zeroCategory(),
		ToneAndStyle: zeroCategory(),
		Content:      zeroCategory(),
		Structure:    zeroCategory(),
		Skills:       zeroCategory(),
	}
}
