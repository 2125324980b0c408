package tailorings

import "time"

// Tailoring is one tailoring-pipeline entry: a job description plus the
// extracted resume text, owned by exactly one user. The tailored fields stay
// nil until a result is recorded; everything else is immutable after create.
type Tailoring struct {
	ID             string
	OwnerID        string
	JobDescription string
	ResumeText     string
	TailoredText   *string
	TailoredLatex  *string
	CreatedAt      time.Time
}
