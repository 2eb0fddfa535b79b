// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known traffic record fields, named after the column headers of a
// tshark HTTP export. They are stored as literal flat keys, exactly as they
// appear in the uploaded file's header row.
const (
	FieldMethod     = "http.request.method"
	FieldStatusCode = "http.response.code"
	FieldSrcPort    = "tcp.srcport"
)

// TrafficRecord is one ingested row from an uploaded tabular file. Rows are
// schema-less: keys are whatever the source file's header names are,
// including dotted names like "http.request.method".
type TrafficRecord map[string]any

// Lookup resolves a field by name. The literal flat key wins; when it is
// absent and the name contains dots, the segments are walked through nested
// documents. This is the single field-access convention used everywhere.
func (r TrafficRecord) Lookup(field string) (any, bool) {
	if v, ok := r[field]; ok {
		return v, true
	}

	if !strings.Contains(field, ".") {
		return nil, false
	}

	var cur any = map[string]any(r)
	for _, seg := range strings.Split(field, ".") {
		switch doc := cur.(type) {
		case map[string]any:
			v, ok := doc[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case TrafficRecord:
			v, ok := doc[seg]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// LookupString resolves a field and stringifies its value. Numeric values
// come back from the document store as int32/int64/float64 depending on how
// they were written, so all of those are normalized to their decimal form.
func (r TrafficRecord) LookupString(field string) (string, bool) {
	v, ok := r.Lookup(field)
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		// Whole floats are rendered without a fraction so "404" and 404.0
		// count into the same histogram bucket.
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Upload is a summary document recorded for each successful ingest.
type Upload struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BatchID    string             `bson:"batch_id" json:"batch_id"`
	Filename   string             `bson:"filename" json:"filename"`
	Rows       int                `bson:"rows" json:"rows"`
	UploadedBy string             `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
