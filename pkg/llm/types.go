package llm

import (
	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/rewrite"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProjectRequest represents Pass 1: choose which projects to show.
type ProjectRequest struct {
	JobDescription string        `json:"job_description"`
	Role           string        `json:"role"`
	Company        string        `json:"company"`
	Resume         string        `json:"resume"`
	Blocks         []latex.Block `json:"blocks,omitempty"`
}

// RewriteRequest represents Pass 2: rewrite bullets and the skills line of the updated resume.
type RewriteRequest struct {
	JobDescription string `json:"job_description"`
	Role           string `json:"role"`
	Company        string `json:"company"`
	Resume         string `json:"resume"`
}

// RewriteResponse represents the Pass 2 answer.
type RewriteResponse struct {
	Bullets     []rewrite.Pair `json:"bullets"`
	SkillsBlock string         `json:"skills_block"`
}
