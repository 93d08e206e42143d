// Package report records a complete build run: identifiers, inputs, outputs
// and content hashes, serialized as JSON next to the build artifacts.
package report

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// BuildReport represents a complete record of a build's inputs and outputs.
type BuildReport struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // "html" or "cache"
	HelpID    string    `json:"help_id"`
	Timestamp time.Time `json:"timestamp"`
	Inputs    Inputs    `json:"inputs"`
	Outputs   Outputs   `json:"outputs"`
	Status    string    `json:"status"`
	Duration  int64     `json:"duration_ms"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	Linguas []string `json:"linguas"`
	Pages   []string `json:"pages"`
	Figures []string `json:"figures"`
}

// Outputs captures all outputs from the build.
type Outputs struct {
	Directory   string            `json:"directory,omitempty"`
	CacheFile   string            `json:"cache_file,omitempty"`
	ContentHash string            `json:"content_hash,omitempty"`
	FileHashes  map[string]string `json:"file_hashes,omitempty"`
}

// Filename is the report written next to the html output tree. It carries a
// fresh uuid and timestamp per run, so it is excluded from the content hash
// to keep rebuilds of unchanged inputs byte-for-byte reproducible.
const Filename = "build-report.json"

// New creates a report with a fresh build id.
func New(action, helpID string) *BuildReport {
	return &BuildReport{
		ID:        uuid.NewString(),
		Action:    action,
		HelpID:    helpID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the report to JSON.
func (r *BuildReport) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a report from JSON.
func FromJSON(data []byte) (*BuildReport, error) {
	var r BuildReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}

// Write persists the report to path.
func (r *BuildReport) Write(path string) error {
	data, err := r.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// HashOutputs walks the output directory and records a sha256 per file plus
// a combined content hash. The combined hash is order-independent of walk
// details: files are hashed in sorted path order.
func (r *BuildReport) HashOutputs(outDir string) error {
	hashes := make(map[string]string)
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		if rel == Filename {
			return nil
		}
		sum, err := hashFile(path)
		if err != nil {
			return err
		}
		hashes[filepath.ToSlash(rel)] = sum
		return nil
	})
	if err != nil {
		return fmt.Errorf("hash outputs: %w", err)
	}

	paths := make([]string, 0, len(hashes))
	for p := range hashes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	combined := sha256.New()
	for _, p := range paths {
		fmt.Fprintf(combined, "%s %s\n", p, hashes[p])
	}

	r.Outputs.Directory = outDir
	r.Outputs.FileHashes = hashes
	r.Outputs.ContentHash = fmt.Sprintf("%x", combined.Sum(nil))
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
