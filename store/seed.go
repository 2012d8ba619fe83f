package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/logging"
	"golang.org/x/text/encoding/charmap"
)

// readSeed reads a JSON seed file. Older exports are Latin-1, so anything that
// is not valid UTF-8 is decoded from ISO-8859-1.
func readSeed(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	logging.Warn("Seed file is not UTF-8, decoding as ISO-8859-1", "path", path)
	decoded, err := io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return decoded, nil
}

// LoadDrugs reads a JSON array of drug documents.
func LoadDrugs(path string) ([]entities.Drug, error) {
	data, err := readSeed(path)
	if err != nil {
		return nil, err
	}

	var drugs []entities.Drug
	if err := json.Unmarshal(data, &drugs); err != nil {
		return nil, fmt.Errorf("failed to parse drugs in %s: %w", path, err)
	}

	skipped := 0
	valid := drugs[:0]
	for _, d := range drugs {
		if d.Name == "" {
			skipped++
			continue
		}
		valid = append(valid, d)
	}
	if skipped > 0 {
		logging.Warn("Skipped drug documents without a name", "path", path, "count", skipped)
	}

	return valid, nil
}

// LoadDocuments reads a JSON array of raw documents, keeping every field.
func LoadDocuments(path string) ([]map[string]any, error) {
	data, err := readSeed(path)
	if err != nil {
		return nil, err
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse documents in %s: %w", path, err)
	}
	return docs, nil
}

// LoadCodes reads a JSON array of {code, name} mappings.
func LoadCodes(path string) ([]entities.CodeMapping, error) {
	data, err := readSeed(path)
	if err != nil {
		return nil, err
	}

	var codes []entities.CodeMapping
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("failed to parse codes in %s: %w", path, err)
	}
	return codes, nil
}
