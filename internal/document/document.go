package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is a raw candidate file: opaque bytes plus the filename it arrived
// with. It is consumed once by text extraction and discarded afterwards.
type Document struct {
	Name string
	Data []byte
}

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// Supported reports whether the filename carries an extension the text
// extractor can handle. Unsupported files are a classification, not an error.
func Supported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListFolder reads every supported file in dir into memory, sorted by
// filename so runs are reproducible.
func ListFolder(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing documents in %q: %w", dir, err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading document %q: %w", entry.Name(), err)
		}

		docs = append(docs, Document{Name: entry.Name(), Data: data})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	return docs, nil
}
