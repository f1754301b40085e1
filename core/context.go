package core

// AgentContext is the ambient per-call data merged into each tool's
// execution context. Session identity flows through here; the engine holds
// no session registry of its own.
type AgentContext struct {
	SessionID string `json:"session_id"`
	JobID     string `json:"job_id,omitempty"`
	ResumeID  string `json:"resume_id,omitempty"`
}

// Profile is a snapshot of the user's profile used to ground the system
// prompt. All fields are optional; the prompt renders a placeholder when
// the profile is absent or empty.
type Profile struct {
	Name        string   `json:"name,omitempty"`
	Headline    string   `json:"headline,omitempty"`
	Location    string   `json:"location,omitempty"`
	YearsOfExp  int      `json:"years_of_experience,omitempty"`
	TargetRoles []string `json:"target_roles,omitempty"`
	TopSkills   []string `json:"top_skills,omitempty"`
}
