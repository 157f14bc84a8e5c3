package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Codebook maps a provider's numeric weather code to its textual
// description. Open-Meteo reports WMO codes that are resolved through this
// table before classification.
type Codebook map[int]string

// Lookup returns the description for a code, if present.
func (cb Codebook) Lookup(code int) (string, bool) {
	text, ok := cb[code]
	return text, ok
}

// LoadCodebook reads a CSV table with a "code,description" header. Rows
// with a malformed code are skipped. An unreadable file is an error the
// caller may treat as non-fatal by continuing with an empty Codebook.
func LoadCodebook(path string) (Codebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codebook: %w", err)
	}
	defer f.Close()

	return readCodebook(f)
}

func readCodebook(r io.Reader) (Codebook, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read codebook header: %w", err)
	}

	codeIdx, descIdx := -1, -1
	for i, col := range header {
		switch col {
		case "code":
			codeIdx = i
		case "description":
			descIdx = i
		}
	}
	if codeIdx < 0 || descIdx < 0 {
		return nil, fmt.Errorf("codebook header missing code/description columns")
	}

	cb := make(Codebook)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read codebook row: %w", err)
		}

		code, err := strconv.Atoi(record[codeIdx])
		if err != nil {
			continue
		}
		cb[code] = record[descIdx]
	}

	return cb, nil
}
