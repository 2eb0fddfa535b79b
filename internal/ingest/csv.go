// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ingest parses uploaded tabular files into traffic records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"trafficwatch/internal/model"
)

// MIMETypeCSV is the only accepted upload content type.
const MIMETypeCSV = "text/csv"

// ErrEmptyFile is returned when the upload has no header row.
var ErrEmptyFile = errors.New("ingest: file has no header row")

// ReadCSV streams a CSV document and returns one TrafficRecord per data row.
// The first row supplies the field names, which are kept verbatim — dotted
// header names like "http.request.method" become literal flat keys. There is
// no row-level validation, no schema enforcement, and no deduplication.
// Rows shorter than the header simply lack the trailing fields; values beyond
// the last header column have no field name and are dropped.
func ReadCSV(r io.Reader) ([]model.TrafficRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, column count varies per row

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}

	var records []model.TrafficRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		rec := make(model.TrafficRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
