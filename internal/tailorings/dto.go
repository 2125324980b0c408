package tailorings

import "time"

// TailoringResponse is the outward-facing representation of a full record.
type TailoringResponse struct {
	ID             string    `json:"id"`
	JobDescription string    `json:"jobDescription"`
	ResumeText     string    `json:"resumeText"`
	TailoredText   *string   `json:"tailoredText"`
	TailoredLatex  *string   `json:"tailoredLatex"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TailoringSummary omits the tailored fields to keep listings small.
type TailoringSummary struct {
	ID             string    `json:"id"`
	JobDescription string    `json:"jobDescription"`
	ResumeText     string    `json:"resumeText"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toResponse(rec Tailoring) TailoringResponse {
	return TailoringResponse{
		ID:             rec.ID,
		JobDescription: rec.JobDescription,
		ResumeText:     rec.ResumeText,
		TailoredText:   rec.TailoredText,
		TailoredLatex:  rec.TailoredLatex,
		CreatedAt:      rec.CreatedAt,
	}
}

func toSummary(rec Tailoring) TailoringSummary {
	return TailoringSummary{
		ID:             rec.ID,
		JobDescription: rec.JobDescription,
		ResumeText:     rec.ResumeText,
		CreatedAt:      rec.CreatedAt,
	}
}
