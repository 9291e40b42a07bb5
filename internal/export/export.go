// Package export serializes pipeline output to the fixed-name files in
// the output directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"G2BLeadMiner/internal/domain"
)

// Fixed output file names within the output directory.
const (
	LeadCSVName   = "lead_records.csv"
	StatsJSONName = "summary_stats.json"
	RawJSONName   = "raw_notices.json"
)

// leadHeader fixes the CSV column order; it mirrors LeadRecord's JSON tags.
var leadHeader = []string{
	"as_of_date",
	"bid_ntce_no",
	"bid_ntce_ord",
	"notice_title",
	"work_type",
	"agency_name",
	"region_guess",
	"deadline_dt",
	"budget_amt",
	"category",
	"match_strength",
	"urgency_score",
	"source_url",
	"contact_policy",
	"notes",
}

// WriteLeadsCSV writes ranked leads with a fixed header row. An empty
// batch produces a zero-byte file rather than a lonely header.
func WriteLeadsCSV(path string, records []domain.LeadRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if len(records) == 0 {
		return nil
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(leadHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, record := range records {
		row := []string{
			record.AsOfDate,
			record.NoticeNo,
			record.NoticeOrd,
			record.Title,
			record.WorkType,
			record.AgencyName,
			record.RegionGuess,
			record.DeadlineDt,
			record.BudgetAmt,
			record.Category,
			strconv.FormatFloat(record.MatchStrength, 'f', -1, 64),
			strconv.Itoa(record.UrgencyScore),
			record.SourceURL,
			record.ContactPolicy,
			record.Notes,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", record.NoticeNo, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes payload as indented UTF-8 JSON with non-ASCII text
// kept literal, the way the Korean notice fields are meant to be read.
func WriteJSON(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
