package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/docintel/core"
)

// loadDocuments reads a JSON array of documents, or an object with a
// "documents" array, from path. "-" reads from stdin.
func loadDocuments(path string, stdin io.Reader) ([]*core.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("a documents file is required (use - for stdin)")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	data = bytes.TrimSpace(data)
	var docs []*core.Document
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Documents []*core.Document `json:"documents"`
		}
		err = json.Unmarshal(data, &wrapped)
		docs = wrapped.Documents
	} else {
		err = json.Unmarshal(data, &docs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse documents: %w", err)
	}

	for i, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
	}
	return docs, nil
}
