package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MayankD409/Resume-Personalizer/pkg/history"
	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/llm"
	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
	"github.com/MayankD409/Resume-Personalizer/pkg/review"
	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const testTemplate = `\documentclass{article}
\begin{document}
\section{Projects}
  \resumeSubHeadingListStart
    \resumeProjectHeading
        {\textbf{Chatbot} $|$ \emph{Python}}{2023}
        \resumeItemListStart
          \resumeItem{Built a retrieval chatbot serving 2k users}
        \resumeItemListEnd
%    \resumeProjectHeading
%        {\textbf{Data Pipeline} $|$ \emph{Go}}{2022}
%        \resumeItemListStart
%          \resumeItem{Designed a streaming data pipeline in Go}
%        \resumeItemListEnd
  \resumeSubHeadingListEnd
\section{Technical Skills}
  \textbf{Languages:} Python, Java
\end{document}`

const (
	testJD = "Backend Engineer at Acme. We need Go, Kafka and streaming pipeline experience.\n\nGo services at scale."

	selectionReply = `{"include_projects": ["Data Pipeline"], "exclude_projects": ["Chatbot"]}`

	rewriteReply = "```json\n" + `{
  "bullets": [
    {"old": "Designed a streaming data pipeline in Go", "new": "Designed a streaming Kafka pipeline in Go"},
    {"old": "", "new": "dropped"}
  ],
  "skills_block": "\\textbf{Languages:} Go, Python"
}` + "\n```"
)

// scriptedProvider replies with canned answers in order.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Ask(_ context.Context, _ []llm.Message) (text string, err error) {
	if p.calls >= len(p.replies) {
		err = errors.New("no more replies")
		return text, err
	}
	text = p.replies[p.calls]
	p.calls++
	return text, err
}

func (p *scriptedProvider) Name() (name string) {
	name = "scripted"
	return name
}

func newTestJob(t *testing.T) (job tailorJob) {
	t.Helper()
	job = tailorJob{
		JobDescription: testJD,
		Role:           "backend engineer",
		Company:        "Acme Corp",
		Lines:          latex.SplitLines(testTemplate),
	}
	return job
}

func TestTailorResume(t *testing.T) {
	provider := &scriptedProvider{replies: []string{selectionReply, rewriteReply}}
	client := llm.NewClient(provider, 0)
	job := newTestJob(t)

	res, err := tailorResume(context.Background(), client, job)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)

	require.Len(t, res.Decision.Activate, 1)
	require.Len(t, res.Decision.Deactivate, 1)
	assert.Equal(t, "Data Pipeline", res.Decision.Activate[0].Title)
	assert.Equal(t, "Chatbot", res.Decision.Deactivate[0].Title)
	assert.True(t, res.ProjectsApplied)

	assert.Equal(t, 1, res.Proposed)
	assert.Equal(t, 1, res.Applied)
	assert.True(t, res.SkillsUpdated)
	assert.True(t, res.Confirmed)

	text := latex.JoinLines(job.Lines)
	assert.Contains(t, text, `\resumeItem{Designed a streaming Kafka pipeline in Go}`)
	assert.Contains(t, text, `% `+`          \resumeItem{Built a retrieval chatbot serving 2k users}`)
	assert.Contains(t, text, `  \textbf{Languages:} Go, Python`)
	assert.Len(t, job.Lines, len(res.Original))

	// The original is kept untouched for diffs
	assert.Equal(t, latex.SplitLines(testTemplate), res.Original)

	blocks := latex.Scan(job.Lines, latex.DefaultPatterns())
	require.Len(t, blocks, 2)
	assert.False(t, blocks[0].Active)
	assert.True(t, blocks[1].Active)

	assert.Greater(t, res.After.MatchPercentage, res.Before.MatchPercentage)
}

func TestTailorResumeInteractive(t *testing.T) {
	provider := &scriptedProvider{replies: []string{selectionReply, rewriteReply}}
	client := llm.NewClient(provider, 0)

	out := &bytes.Buffer{}
	job := newTestJob(t)
	// projects: yes, rewrite: yes, skills: no, save: yes
	job.Reviewer = review.NewReviewer(strings.NewReader("y\ny\nn\ny\n"), out)

	res, err := tailorResume(context.Background(), client, job)
	require.NoError(t, err)

	assert.True(t, res.ProjectsApplied)
	assert.Equal(t, 1, res.Applied)
	assert.False(t, res.SkillsUpdated)
	assert.True(t, res.Confirmed)

	assert.Contains(t, latex.JoinLines(job.Lines), `  \textbf{Languages:} Python, Java`)
	assert.Contains(t, out.String(), "+ include Data Pipeline")
	assert.Contains(t, out.String(), "Changes to be Applied:")
}

func TestTailorResumeInteractiveDeclines(t *testing.T) {
	provider := &scriptedProvider{replies: []string{selectionReply, rewriteReply}}
	client := llm.NewClient(provider, 0)

	job := newTestJob(t)
	job.Reviewer = review.NewReviewer(strings.NewReader("n\nq\nn\nn\n"), &bytes.Buffer{})

	res, err := tailorResume(context.Background(), client, job)
	require.NoError(t, err)

	assert.False(t, res.ProjectsApplied)
	assert.Equal(t, 0, res.Applied)
	assert.False(t, res.SkillsUpdated)
	assert.False(t, res.Confirmed)
	assert.Equal(t, res.Original, job.Lines)
}

func TestTailorResumeNoBlocks(t *testing.T) {
	provider := &scriptedProvider{}
	job := newTestJob(t)
	job.Lines = []string{`\section{Experience}`, `  \resumeItem{Did things}`}

	_, err := tailorResume(context.Background(), llm.NewClient(provider, 0), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, latex.ErrNoBlocks)
	assert.Equal(t, 0, provider.calls, "no AI call without project blocks")
}

func TestTailorResumeInvalidSelection(t *testing.T) {
	provider := &scriptedProvider{replies: []string{`{"include_projects": ["Data Pipeline"]}`}}
	job := newTestJob(t)

	_, err := tailorResume(context.Background(), llm.NewClient(provider, 0), job)
	require.Error(t, err)

	var verr *llm.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, llm.SchemaProjects, verr.Schema)
	assert.Equal(t, latex.SplitLines(testTemplate), job.Lines, "nothing applied on a bad reply")
}

func TestTailorResumeRewriteFailure(t *testing.T) {
	provider := &scriptedProvider{replies: []string{selectionReply}}
	job := newTestJob(t)

	_, err := tailorResume(context.Background(), llm.NewClient(provider, 0), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no more replies")
}

func testRun() (job tailorJob, res tailorResult, run history.Run) {
	job = tailorJob{
		JobDescription: testJD,
		Role:           "backend engineer",
		Company:        "Acme Corp",
		Lines:          []string{"line one", "line two"},
	}
	res = tailorResult{
		ProjectsApplied: true,
		ProjectsRaw:     selectionReply,
		RewritesRaw:     "not json",
		Proposed:        4,
		Applied:         3,
		SkillsUpdated:   true,
		Before:          scorer.Analysis{MatchPercentage: 42},
		After:           scorer.Analysis{MatchPercentage: 55.5, Missing: []string{"kafka"}},
	}
	res.Decision.Activate = []latex.Block{{Title: "Data Pipeline", HasTitle: true}}
	res.Decision.Deactivate = []latex.Block{{Title: "Chatbot", HasTitle: true}, {}}

	run = newRun(job, res, "openai", "gpt-4.1", time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	return job, res, run
}

func TestNewRun(t *testing.T) {
	_, res, run := testRun()

	assert.Equal(t, []string{"Data Pipeline"}, run.Activated)
	assert.Equal(t, []string{"Chatbot", latex.UnknownTitle}, run.Deactivated)
	assert.Equal(t, "none", run.Fallback)
	assert.Equal(t, 4, run.RewritesProposed)
	assert.Equal(t, 3, run.RewritesApplied)
	assert.Equal(t, "gpt-4.1", run.Model)

	// Declined project changes are not reported
	res.ProjectsApplied = false
	run = newRun(tailorJob{}, res, "openai", "", time.Now())
	assert.Empty(t, run.Activated)
	assert.NotNil(t, run.Deactivated)
}

func TestFormatSummary(t *testing.T) {
	_, _, run := testRun()
	summary := formatSummary(run)

	assert.Contains(t, summary, "✓ Tailored resume for Backend Engineer at Acme Corp")
	assert.Contains(t, summary, "+1 Data Pipeline")
	assert.Contains(t, summary, "-2 Chatbot, <unknown>")
	assert.Contains(t, summary, "Bullet rewrites applied: 3/4")
	assert.Contains(t, summary, "Skills line: updated")
	assert.Contains(t, summary, "Keyword match: 42.0% -> 55.5% (+13.5)")

	run.Activated, run.Deactivated, run.SkillsUpdated = nil, nil, false
	summary = formatSummary(run)
	assert.Contains(t, summary, "Projects: unchanged")
	assert.Contains(t, summary, "Skills line: unchanged")
}

func TestWriteOutputs(t *testing.T) {
	job, res, run := testRun()
	base := t.TempDir()

	files, err := writeOutputs(base, job, res, run)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "acme", "backend-engineer"), files.dir)

	data, err := os.ReadFile(files.resume)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))

	data, err = os.ReadFile(files.jd)
	require.NoError(t, err)
	assert.Equal(t, testJD, string(data))

	data, err = os.ReadFile(files.projects)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"include_projects\"")

	data, err = os.ReadFile(files.rewrites)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))

	saved, err := history.LoadRun(files.summary)
	require.NoError(t, err)
	assert.Equal(t, run.Company, saved.Company)
	assert.Equal(t, run.After.MatchPercentage, saved.After.MatchPercentage)
	assert.True(t, run.TailoredAt.Equal(saved.TailoredAt))

	// The saved summary is picked up by the run history
	indexer, err := history.NewIndexer(base)
	require.NoError(t, err)
	count, err := indexer.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.FileExists(t, filepath.Join(base, history.IndexFile))
	assert.Equal(t, renderer.SummaryFile, filepath.Base(files.summary))
}

func TestGetOrDefault(t *testing.T) {
	assert.Equal(t, "flag", getOrDefault("flag", "config"))
	assert.Equal(t, "config", getOrDefault("", "config"))
}
