package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/agroqa/core"
)

// ReadPairsCSV parses question/answer pairs from CSV. The first row is a
// header and must name a "question" and an "answer" column (matched
// case-insensitively); any other columns become pair metadata keyed by
// their header name. Rows with a blank question or answer are skipped.
func ReadPairsCSV(r io.Reader) ([]*core.Pair, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingColumns
		}
		return nil, err
	}

	questionCol, answerCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			questionCol = i
		case "answer":
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return nil, ErrMissingColumns
	}

	var pairs []*core.Pair
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		question := strings.TrimSpace(row[questionCol])
		answer := strings.TrimSpace(row[answerCol])
		if question == "" || answer == "" {
			continue
		}

		var metadata map[string]string
		for i, value := range row {
			if i == questionCol || i == answerCol {
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" || i >= len(header) {
				continue
			}
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[strings.TrimSpace(header[i])] = value
		}

		pairs = append(pairs, &core.Pair{
			Question: question,
			Answer:   answer,
			Metadata: metadata,
		})
	}

	return pairs, nil
}
