package models

// UseCase describes one instance of AI being applied in an industry, with
// source attribution.
type UseCase struct {
	ID                string   `json:"id,omitempty"`
	Industry          string   `json:"industry"`
	BusinessFunction  string   `json:"business_function"`
	Organization      string   `json:"organization,omitempty"`
	SourceOrigin      string   `json:"source_origin"`
	SourceLink        string   `json:"source_link"`
	LastUpdated       string   `json:"last_updated,omitempty"`
	ImpactedProcesses []string `json:"impacted_processes"`
	EconomicValue     string   `json:"economic_value,omitempty"`
	Gains             []string `json:"gains"`
	AIUsage           string   `json:"ai_usage"`
	AITechnologies    []string `json:"ai_technologies"`
	Partners          []string `json:"partners"`
}

// ListFields are the JSON keys of UseCase that must always hold arrays.
var ListFields = []string{
	"impacted_processes",
	"gains",
	"ai_technologies",
	"partners",
}

// Normalize replaces nil list fields with empty slices so they serialize as
// [] rather than null.
func (u *UseCase) Normalize() {
	if u.ImpactedProcesses == nil {
		u.ImpactedProcesses = []string{}
	}
	if u.Gains == nil {
		u.Gains = []string{}
	}
	if u.AITechnologies == nil {
		u.AITechnologies = []string{}
	}
	if u.Partners == nil {
		u.Partners = []string{}
	}
}
