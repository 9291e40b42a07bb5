package domain

// Unassigned is the sentinel used wherever the source feed omits a value.
// Grouping and exclusion logic must never treat absence as a wildcard,
// so blanks are replaced with this marker during normalization.
const Unassigned = "미지정"

// Categories assigned by the title classifier.
const (
	CategoryUnassigned = Unassigned
	CategoryNoMatch    = "비대상"
	CategoryHold       = "보류(노이즈 가능)"
	CategoryOD         = "OD/조직"
	CategoryEval       = "평가/제도"
	CategoryHRD        = "HRD/교육"
)

// RawNotice is one procurement announcement as fetched and normalized.
// Identity is the (NoticeNo, NoticeOrd) pair; amendments share the
// notice number and bump the ordinal.
type RawNotice struct {
	NoticeNo   string   `json:"bid_ntce_no"`
	NoticeOrd  string   `json:"bid_ntce_ord"`
	Title      string   `json:"notice_title"`
	WorkType   string   `json:"work_type"`
	AgencyName string   `json:"agency_name"`
	NoticeDate string   `json:"notice_date"`
	DeadlineDt string   `json:"deadline_dt"`
	BudgetAmt  *float64 `json:"budget_amt"`
	SourceURL  string   `json:"source_url"`
}

// Key returns the deduplication key for the notice.
func (n RawNotice) Key() NoticeKey {
	return NoticeKey{No: n.NoticeNo, Ord: n.NoticeOrd}
}

// NoticeKey identifies a notice version across windows and pages.
type NoticeKey struct {
	No  string
	Ord string
}

// LeadRecord is a matched, scored notice ready for export. Immutable
// once built; ranked and possibly truncated before export.
type LeadRecord struct {
	AsOfDate      string  `json:"as_of_date"`
	NoticeNo      string  `json:"bid_ntce_no"`
	NoticeOrd     string  `json:"bid_ntce_ord"`
	Title         string  `json:"notice_title"`
	WorkType      string  `json:"work_type"`
	AgencyName    string  `json:"agency_name"`
	RegionGuess   string  `json:"region_guess"`
	DeadlineDt    string  `json:"deadline_dt"`
	BudgetAmt     string  `json:"budget_amt"`
	Category      string  `json:"category"`
	MatchStrength float64 `json:"match_strength"`
	UrgencyScore  int     `json:"urgency_score"`
	SourceURL     string  `json:"source_url"`
	ContactPolicy string  `json:"contact_policy"`
	Notes         string  `json:"notes"`
}

// SummaryStats aggregates one pipeline run. Built from the full
// deduplicated batch, independent of top-N truncation.
type SummaryStats struct {
	TotalNotices   int            `json:"total_notices"`
	MatchedNotices int            `json:"matched_notices"`
	ByCategory     map[string]int `json:"by_category"`
	ByWorkType     map[string]int `json:"by_work_type"`
}
