package history

import (
	"time"

	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

// IndexFile is the name of the index written at the root of the output directory.
const IndexFile = ".history-index.json"

// IndexVersion is the format version of the index file.
const IndexVersion = "1.0.0"

// Run is the record of one tailoring run, saved as the summary file in its output directory.
type Run struct {
	Company          string          `json:"company"`
	Role             string          `json:"role"`
	Provider         string          `json:"provider"`
	Model            string          `json:"model,omitempty"`
	TailoredAt       time.Time       `json:"tailored_at"`
	Activated        []string        `json:"activated_projects"`
	Deactivated      []string        `json:"deactivated_projects"`
	Fallback         string          `json:"fallback"`
	RewritesProposed int             `json:"rewrites_proposed"`
	RewritesApplied  int             `json:"rewrites_applied"`
	SkillsUpdated    bool            `json:"skills_updated"`
	Before           scorer.Analysis `json:"keywords_before"`
	After            scorer.Analysis `json:"keywords_after"`
}

// Index is the searchable index of all past runs.
type Index struct {
	Runs      []IndexedRun `json:"runs"`
	UpdatedAt time.Time    `json:"updated_at"`
	Version   string       `json:"version"`
}

// IndexedRun is the part of a run used for retrieval.
type IndexedRun struct {
	Company     string    `json:"company"`
	Role        string    `json:"role"`
	RoleLevel   string    `json:"role_level"` // Junior, IC, Senior IC, Staff IC, Director, VP, CTO
	TailoredAt  time.Time `json:"tailored_at"`
	MatchBefore float64   `json:"match_before"`
	MatchAfter  float64   `json:"match_after"`
	Missing     []string  `json:"missing_keywords"`
	Path        string    `json:"path"` // Path to the full summary
}

// Gap is a job-description keyword that stayed missing after tailoring in several runs.
type Gap struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}
