// Package history indexes the summaries of past tailoring runs so later runs can look back at
// similar applications.
package history

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
)

// Indexer indexes run summaries below an output directory.
type Indexer struct {
	outputPath string // e.g. ./output
	indexPath  string // e.g. ./output/.history-index.json
}

// NewIndexer creates a new indexer instance.
func NewIndexer(outputPath string) (indexer *Indexer, err error) {
	if outputPath == "" {
		err = errors.New("output path is required")
		return indexer, err
	}

	indexer = &Indexer{
		outputPath: outputPath,
		indexPath:  filepath.Join(outputPath, IndexFile),
	}

	return indexer, err
}

// processSummaryFile indexes a single summary file during the directory walk.
func (idx *Indexer) processSummaryFile(path string, d fs.DirEntry, runs *[]IndexedRun) {
	if d.IsDir() || d.Name() != renderer.SummaryFile {
		return
	}

	run, err := LoadRun(path)
	if err != nil {
		// Skip bad summaries
		slog.Debug("Skipping unreadable run summary", "path", path, "error", err)
		return
	}

	*runs = append(*runs, IndexedRun{
		Company:     run.Company,
		Role:        run.Role,
		RoleLevel:   RoleLevel(run.Role),
		TailoredAt:  run.TailoredAt,
		MatchBefore: run.Before.MatchPercentage,
		MatchAfter:  run.After.MatchPercentage,
		Missing:     run.After.Missing,
		Path:        path,
	})
}

// Index scans all summary files and rewrites the index. A missing output directory indexes
// nothing.
func (idx *Indexer) Index(ctx context.Context) (count int, err error) {
	runs := []IndexedRun{}

	_, err = os.Stat(idx.outputPath)
	if os.IsNotExist(err) {
		err = nil
		return count, err
	}

	err = filepath.WalkDir(idx.outputPath, func(path string, d fs.DirEntry, walkErr error) (walkFuncErr error) {
		if walkErr != nil {
			walkFuncErr = walkErr
			return walkFuncErr
		}
		walkFuncErr = ctx.Err()
		if walkFuncErr != nil {
			return walkFuncErr
		}
		idx.processSummaryFile(path, d, &runs)
		return walkFuncErr
	})
	if err != nil {
		err = errors.Wrap(err, "failed to walk output directory")
		return count, err
	}

	index := Index{
		Runs:      runs,
		UpdatedAt: time.Now(),
		Version:   IndexVersion,
	}

	err = idx.writeIndex(index)
	if err != nil {
		err = errors.Wrap(err, "failed to write index")
		return count, err
	}

	count = len(runs)

	return count, err
}

// LoadRun reads one run summary.
func LoadRun(path string) (run Run, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrap(err, "failed to read run summary")
		return run, err
	}

	err = json.Unmarshal(data, &run)
	if err != nil {
		err = errors.Wrap(err, "failed to parse run summary JSON")
		return run, err
	}

	return run, err
}

func (idx *Indexer) writeIndex(index Index) (err error) {
	err = renderer.WriteJSON(idx.indexPath, index)
	return err
}

// LoadIndex loads the existing index from disk. A missing index is empty.
func (idx *Indexer) LoadIndex() (index Index, err error) {
	var data []byte
	data, err = os.ReadFile(idx.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			index = Index{
				Runs:      []IndexedRun{},
				UpdatedAt: time.Now(),
				Version:   IndexVersion,
			}
			err = nil
			return index, err
		}
		err = errors.Wrap(err, "failed to read index file")
		return index, err
	}

	err = json.Unmarshal(data, &index)
	if err != nil {
		err = errors.Wrap(err, "failed to parse index JSON")
		return index, err
	}

	return index, err
}

// RoleLevel buckets a role title by seniority.
func RoleLevel(role string) (level string) {
	lower := strings.ToLower(role)
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '-' || r == '(' || r == ')'
	}) {
		words[strings.TrimSuffix(w, ".")] = struct{}{}
	}
	has := func(keys ...string) (found bool) {
		for _, k := range keys {
			if _, ok := words[k]; ok {
				found = true
				return found
			}
		}
		return found
	}

	switch {
	case has("cto", "chief"):
		level = "CTO"
	case has("vp") || strings.Contains(lower, "vice president"):
		level = "VP"
	case has("director", "head"):
		level = "Director"
	case has("staff", "principal", "lead"):
		level = "Staff IC"
	case has("senior", "sr"):
		level = "Senior IC"
	case has("intern", "junior", "jr", "graduate", "entry"):
		level = "Junior"
	default:
		level = "IC"
	}

	return level
}
