// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stats computes the dashboard aggregate over the traffic collection.
package stats

import (
	"math"

	"trafficwatch/internal/model"
)

// attackCodes are the response codes counted as attacks. The set is the
// literal three codes the dashboard has always reported, not the full
// 4xx/5xx classes.
var attackCodes = map[string]struct{}{
	"400": {},
	"404": {},
	"500": {},
}

// Dashboard is the aggregate served by the dashboard-data endpoint.
type Dashboard struct {
	TotalRequest     int            `json:"totalRequest"`
	TotalAttack      int            `json:"totalAttack"`
	AttackPercentage float64        `json:"attackPercentage"`
	MethodCount      map[string]int `json:"methodCount"`
	StatusCount      map[string]int `json:"statusCount"`
	SrcPortCount     map[string]int `json:"srcPortCount"`
}

// Aggregate scans the full record set and computes the dashboard summary.
// Records missing a histogram field are skipped for that histogram only.
func Aggregate(records []model.TrafficRecord) Dashboard {
	d := Dashboard{
		TotalRequest: len(records),
		MethodCount:  make(map[string]int),
		StatusCount:  make(map[string]int),
		SrcPortCount: make(map[string]int),
	}

	for _, rec := range records {
		if code, ok := rec.LookupString(model.FieldStatusCode); ok {
			d.StatusCount[code]++
			if _, attack := attackCodes[code]; attack {
				d.TotalAttack++
			}
		}
		if method, ok := rec.LookupString(model.FieldMethod); ok {
			d.MethodCount[method]++
		}
		if port, ok := rec.LookupString(model.FieldSrcPort); ok {
			d.SrcPortCount[port]++
		}
	}

	if d.TotalRequest > 0 {
		pct := float64(d.TotalAttack) / float64(d.TotalRequest) * 100
		d.AttackPercentage = math.Round(pct*100) / 100
	}

	return d
}
