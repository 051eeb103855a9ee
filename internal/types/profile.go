package types

// SeekerProfile is the read-only per-request snapshot of a seeker's signal,
// produced by the external resume-ingestion pipeline. The engine never
// persists or mutates it.
type SeekerProfile struct {
	UserID  string   `json:"user_id,omitempty"`
	Skills  []string `json:"skills"`
	Titles  []string `json:"titles"`
	RawText string   `json:"raw_text,omitempty"`
}

// IsEmpty reports whether the profile carries no usable ranking signal.
func (p *SeekerProfile) IsEmpty() bool {
	return p == nil || (len(p.Skills) == 0 && len(p.Titles) == 0 && p.RawText == "")
}
