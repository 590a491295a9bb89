package gsn

// ArgumentCase is the envelope for one complete assurance argument.
// The case exclusively owns every node in its arena.
type ArgumentCase struct {
	CaseID      string `json:"case_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProjectType string `json:"project_type,omitempty"`
	NodeSet
}

// NewCase creates an empty argument case
func NewCase(caseID, title string) *ArgumentCase {
	return &ArgumentCase{
		CaseID:  caseID,
		Title:   title,
		NodeSet: NewNodeSet(),
	}
}
