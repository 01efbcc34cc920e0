// File path: internal/ingest/loader.go
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
)

const maxLineBytes = 8 << 20

// LoadBlockRecords reads block record documents from every *.json and *.jsonl
// file under dir. Unreadable or undecodable documents are logged and skipped;
// a missing directory is an error because it usually means a misconfigured
// invocation rather than an empty parse.
func LoadBlockRecords(ctx context.Context, dir string) ([]BlockRecord, error) {
	docs, err := readDocuments(ctx, dir)
	if err != nil {
		return nil, err
	}
	logger := common.Logger()
	records := make([]BlockRecord, 0, len(docs))
	for _, doc := range docs {
		var rec BlockRecord
		if err := json.Unmarshal(doc.data, &rec); err != nil {
			logger.Warn("ingest: skipping undecodable block record", "file", doc.path, "error", err)
			continue
		}
		records = append(records, rec)
	}
	logger.Info("ingest: block records loaded", "dir", dir, "records", len(records))
	return records, nil
}

// LoadStepRecords reads step record documents from every *.json and *.jsonl
// file under dir, with the same skip-and-warn policy as LoadBlockRecords.
func LoadStepRecords(ctx context.Context, dir string) ([]StepRecord, error) {
	docs, err := readDocuments(ctx, dir)
	if err != nil {
		return nil, err
	}
	logger := common.Logger()
	records := make([]StepRecord, 0, len(docs))
	for _, doc := range docs {
		var rec StepRecord
		if err := json.Unmarshal(doc.data, &rec); err != nil {
			logger.Warn("ingest: skipping undecodable step record", "file", doc.path, "error", err)
			continue
		}
		records = append(records, rec)
	}
	logger.Info("ingest: step records loaded", "dir", dir, "records", len(records))
	return records, nil
}

type document struct {
	path string
	data []byte
}

func readDocuments(ctx context.Context, dir string) ([]document, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("ingest directory required")
	}
	info, err := os.Stat(trimmed)
	if err != nil {
		return nil, fmt.Errorf("stat ingest dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest path %s is not a directory", trimmed)
	}
	logger := common.Logger()
	var docs []document
	walkErr := filepath.WalkDir(trimmed, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("ingest: walk error", "path", path, "error", err)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("ingest: unreadable file skipped", "path", path, "error", err)
				return nil
			}
			docs = append(docs, document{path: path, data: data})
		case ".jsonl":
			lines, err := readLines(path)
			if err != nil {
				logger.Warn("ingest: unreadable file skipped", "path", path, "error", err)
				return nil
			}
			docs = append(docs, lines...)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return docs, nil
}

func readLines(path string) ([]document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)
	var docs []document
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		docs = append(docs, document{path: path, data: []byte(line)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
