package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal converts a document to indented JSON bytes.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a document and validates it.
func Unmarshal(data []byte) (*Document, error) {
	return readFrom(bytes.NewReader(data))
}

// Write writes a document as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(d *Document, w io.Writer) error {
	return writeTo(d, w)
}

// Read decodes a JSON document from an io.Reader.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (*Document, error) {
	return readFrom(r)
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(d, f)
}

// ReadFile reads a JSON file and returns the decoded document.
// Returns validation errors for unsupported versions or dangling image refs.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

func writeTo(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
