package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/CEuchner/churchtools-song-export/internal/selection"
)

// Load reads a settings document from path and applies it onto the state.
//
// A missing file is not an error: the state keeps its session defaults and
// loaded is false.
func Load(path string, s *selection.State) (loaded bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if err := Apply(data, s); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	return true, nil
}

// Save writes the document to path as indented JSON.
//
// Parent directories are created as needed. The file is replaced atomically
// so that a watcher never sees a partially written document.
func Save(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Write encodes the document as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Read decodes a complete document from r.
//
// Unlike Apply, Read is strict: values of the wrong type are reported as
// errors wrapping ErrMalformedDocument.
func Read(r io.Reader) (Document, error) {
	var doc Document
	data, err := io.ReadAll(r)
	if err != nil {
		return doc, err
	}
	if _, err := decodeObject(data); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return doc, nil
}
