package scoring

import "strings"

// Free text from the caller is embedded in the outbound instruction payload,
// so it is length-capped and stripped of control characters first.
const (
	maxJobTitleRunes       = 200
	maxJobDescriptionRunes = 8000
)

// feedbackSchemaFormat is the exact reply shape appended to every
// instruction payload. The explanation field is optional for ATS tips only.
const feedbackSchemaFormat = `interface Feedback {
  overallScore: number; // 0-100

  ATS: {
    score: number; // ATS optimization score
    tips: {
      type: "good" | "improve";
      tip: string; // short title
      explanation?: string; // optional detailed explanation
    }[];
  };

  toneAndStyle: {
    score: number;
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[];
  };

  content: {
    score: number;
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[];
  };

  structure: {
    score: number;
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[];
  };

  skills: {
    score: number;
    tips: {
      type: "good" | "improve";
      tip: string;
      explanation: string;
    }[];
  };
}`

const instructionTemplate = `You are an expert in Applicant Tracking Systems (ATS) and resume analysis.

Your task:
- Analyze the given resume against the job requirements.
- Assign detailed scores (0-100) for each section.
- Highlight strengths ("good") and areas to improve ("improve") with clear tips.
- Be honest and constructive - if the resume is weak, do not hesitate to assign low scores.
- Use the provided job title and description to tailor recommendations.

Job Title: {{JOB_TITLE}}
Job Description: {{JOB_DESCRIPTION}}

Return the response strictly as a JSON object matching this schema:
{{SCHEMA}}

Do NOT include extra text, markdown, or explanations outside the JSON object.`

// Instructions renders the fixed instruction payload with the caller's job
// context interpolated.
func Instructions(jobTitle, jobDescription string) string {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", sanitizeField(jobTitle, maxJobTitleRunes),
		"{{JOB_DESCRIPTION}}", sanitizeField(jobDescription, maxJobDescriptionRunes),
		"{{SCHEMA}}", feedbackSchemaFormat,
	)
	return replacer.Replace(instructionTemplate)
}

// sanitizeField drops control characters (keeping newlines and tabs) and
// truncates to a rune limit.
func sanitizeField(s string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)

	runes := []rune(cleaned)
	if len(runes) > maxRunes {
		runes = runes[:maxRunes]
	}
	return strings.TrimSpace(string(runes))
}
