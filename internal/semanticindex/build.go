// Package semanticindex wires the Source-analyzer bridge (internal/uastbridge)
// and the File Set into the inputs internal/semanticstore.Store.Reindex
// needs: a per-file content hash for change detection, and a
// function-scoped document extractor so the TF-IDF index ranks individual
// functions rather than whole files.
package semanticindex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/fileset"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/semanticstore"
	"github.com/panbanda/omen/internal/uastbridge"
)

// ContentHash returns the hex-encoded SHA-256 digest of data, the change
// key semanticstore.Store.Reindex uses to decide whether a file needs
// re-extraction.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// BuildFileSet reads every path in files relative to root and returns the
// semanticstore.FileSet Reindex expects. A file that fails to read is
// skipped rather than aborting the whole index build, matching the
// skip-and-continue propagation rule for per-file I/O errors.
func BuildFileSet(root string, files *fileset.Set) semanticstore.FileSet {
	out := make(semanticstore.FileSet, files.Len())

	for _, rel := range files.Paths() {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}

		out[rel] = ContentHash(data)
	}

	return out
}

// Extractor returns a semanticstore.Extractor that splits path into one
// Document per function found by bridge, falling back to a single
// whole-file Document when the bridge finds no functions (either an
// unsupported language or a file with no recognizable function nodes).
func Extractor(root string, bridge *uastbridge.Bridge) semanticstore.Extractor {
	return func(path string) ([]model.Document, error) {
		abs := filepath.Join(root, filepath.FromSlash(path))

		src, err := os.ReadFile(abs)
		if err != nil {
			return nil, errkind.Wrap(errkind.Io, "read "+path, err)
		}

		functions, err := bridge.AnalyzeFile(context.Background(), abs)
		if err != nil {
			return nil, err
		}

		if len(functions) == 0 {
			return []model.Document{wholeFileDocument(path, src)}, nil
		}

		lines := strings.Split(string(src), "\n")
		docs := make([]model.Document, 0, len(functions))

		for _, fn := range functions {
			docs = append(docs, model.Document{
				Text: sliceLines(lines, fn.StartLine, fn.EndLine),
				Metadata: model.DocMetadata{
					FilePath:   path,
					SymbolName: fn.Name,
					SymbolType: "function",
					StartLine:  fn.StartLine,
					EndLine:    fn.EndLine,
				},
			})
		}

		return docs, nil
	}
}

func wholeFileDocument(path string, src []byte) model.Document {
	return model.Document{
		Text: string(src),
		Metadata: model.DocMetadata{
			FilePath:   path,
			SymbolName: filepath.Base(path),
			SymbolType: "file",
			StartLine:  1,
			EndLine:    strings.Count(string(src), "\n") + 1,
		},
	}
}

// sliceLines returns the 1-indexed, inclusive [start,end] line range of
// lines, clamped to its bounds.
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}

	if end > len(lines) {
		end = len(lines)
	}

	if start > end {
		return ""
	}

	return strings.Join(lines[start-1:end], "\n")
}
