// Package resumes implements the resume analysis pipeline: upload, first-page
// rendering, draft persistence, scoring, validation, and finalization.
package resumes

import "resulens-backend/internal/feedback"

// Record is one persisted resume submission with its analysis outcome.
// A record is created as a draft with zeroed feedback and mutated exactly
// once more, replacing feedback wholesale after validation.
type Record struct {
	ID             string            `json:"id"`
	ResumePath     string            `json:"resumePath"`
	ImagePath      string            `json:"imagePath"`
	CompanyName    string            `json:"companyName"`
	JobTitle       string            `json:"jobTitle"`
	JobDescription string            `json:"jobDescription"`
	Feedback       feedback.Feedback `json:"feedback"`
}

const keyPrefix = "resume:"

func recordKey(id string) string {
	return keyPrefix + id
}

// listPattern matches every record key in the store.
const listPattern = keyPrefix + "*"
