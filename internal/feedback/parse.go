package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidFeedback wraps every parse or schema failure. Callers treat it as
// terminal for the current analysis run.
var ErrInvalidFeedback = errors.New("invalid feedback")

// Wire mirrors of the schema with pointer fields, so a missing key is
// distinguishable from a zero value.
type feedbackWire struct {
	OverallScore *int          `json:"overallScore"`
	ATS          *categoryWire `json:"ATS"`
	ToneAndStyle *categoryWire `json:"toneAndStyle"`
	Content      *categoryWire `json:"content"`
	Structure    *categoryWire `json:"structure"`
	Skills       *categoryWire `json:"skills"`
}

type categoryWire struct {
	Score *int      `json:"score"`
	Tips  []tipWire `json:"tips"`
}

type tipWire struct {
	Type        *string `json:"type"`
	Tip         *string `json:"tip"`
	Explanation *string `json:"explanation"`
}

// Parse decodes raw reply text as a bare JSON Feedback object and validates
// it against the schema. The reply contract allows no surrounding prose or
// markdown fencing. Parse is deterministic and has no side effects.
func Parse(raw string) (Feedback, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	var wire feedbackWire
	if err := dec.Decode(&wire); err != nil {
		return Feedback{}, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	// Anything after the object means the reply was not bare JSON.
	if err := trailingContent(dec); err != nil {
		return Feedback{}, err
	}

	if wire.OverallScore == nil {
		return Feedback{}, fmt.Errorf("%w: overallScore is required", ErrInvalidFeedback)
	}
	if err := checkScore("overallScore", *wire.OverallScore); err != nil {
		return Feedback{}, err
	}

	categories := []struct {
		name            string
		wire            *categoryWire
		explanationsOpt bool
	}{
		{name: "ATS", wire: wire.ATS, explanationsOpt: true},
		{name: "toneAndStyle", wire: wire.ToneAndStyle},
		{name: "content", wire: wire.Content},
		{name: "structure", wire: wire.Structure},
		{name: "skills", wire: wire.Skills},
	}

	parsed := make([]Category, 0, len(categories))
	for _, cat := range categories {
		category, err := parseCategory(cat.name, cat.wire, cat.explanationsOpt)
		if err != nil {
			return Feedback{}, err
		}
		parsed = append(parsed, category)
	}

	return Feedback{
		OverallScore: *wire.OverallScore,
		ATS:          parsed[0],
		ToneAndStyle: parsed[1],
		Content:      parsed[2],
		Structure:    parsed[3],
		Skills:       parsed[4],
	}, nil
}

func parseCategory(name string, wire *categoryWire, explanationsOptional bool) (Category, error) {
	if wire == nil {
		return Category{}, fmt.Errorf("%w: %s is required", ErrInvalidFeedback, name)
	}
	if wire.Score == nil {
		return Category{}, fmt.Errorf("%w: %s.score is required", ErrInvalidFeedback, name)
	}
	if err := checkScore(name+".score", *wire.Score); err != nil {
		return Category{}, err
	}

	tips := make([]Tip, 0, len(wire.Tips))
	for i, tw := range wire.Tips {
		if tw.Type == nil {
			return Category{}, fmt.Errorf("%w: %s.tips[%d].type is required", ErrInvalidFeedback, name, i)
		}
		if *tw.Type != TipGood && *tw.Type != TipImprove {
			return Category{}, fmt.Errorf("%w: %s.tips[%d].type must be %q or %q", ErrInvalidFeedback, name, i, TipGood, TipImprove)
		}
		if tw.Tip == nil || strings.TrimSpace(*tw.Tip) == "" {
			return Category{}, fmt.Errorf("%w: %s.tips[%d].tip is required", ErrInvalidFeedback, name, i)
		}
		if !explanationsOptional && tw.Explanation == nil {
			return Category{}, fmt.Errorf("%w: %s.tips[%d].explanation is required", ErrInvalidFeedback, name, i)
		}
		tips = append(tips, Tip{Type: *tw.Type, Tip: *tw.Tip, Explanation: tw.Explanation})
	}

	return Category{Score: *wire.Score, Tips: tips}, nil
}

func checkScore(field string, score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: %s must be between 0 and 100, got %d", ErrInvalidFeedback, field, score)
	}
	return nil
}

func trailingContent(dec *json.Decoder) error {
	var extra json.RawMessage
	err := dec.Decode(&extra)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: trailing content after JSON object: %v", ErrInvalidFeedback, err)
	}
	return fmt.Errorf("%w: trailing content after JSON object", ErrInvalidFeedback)
}
