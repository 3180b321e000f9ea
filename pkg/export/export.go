// Package export writes analysis results to files consumed outside the engine.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/hangar/core/report"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteInductionsCSV writes manual and auto inductions of the export model,
// one row per induction.
func WriteInductionsCSV(w io.Writer, m report.ExportModel) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "kind", "aircraft", "hangar", "door", "bays", "start", "end",
		"clearance", "bays_required", "connected", "conflicts"}
	if err := cw.Write(header); err != nil {
		return err
	}
	rows := append(append([]report.InductionRecord(nil), m.Inductions...), m.AutoScheduled...)
	for _, r := range rows {
		rec := []string{
			r.ID,
			r.Kind,
			r.Aircraft,
			r.Hangar,
			r.Door,
			strings.Join(r.Bays, ";"),
			r.Start.UTC().Format(time.RFC3339),
			r.End.UTC().Format(time.RFC3339),
			r.Clearance,
			strconv.Itoa(r.Derived.BaysRequired),
			strconv.FormatBool(r.Derived.Connected),
			strings.Join(r.Conflicts, ";"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteViolationsCSV writes the report's violations in report order.
func WriteViolationsCSV(w io.Writer, r report.ValidationReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rule_id", "severity", "subject_type", "subject_name", "subject_id", "message"}); err != nil {
		return err
	}
	for _, v := range r.Violations {
		rec := []string{
			string(v.Rule),
			string(v.Severity),
			v.Subject.Type,
			v.Subject.Name,
			v.Subject.ID,
			v.Message,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
