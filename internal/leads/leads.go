// Package leads turns deduplicated notices into ranked lead records and
// run-level summary statistics.
package leads

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"G2BLeadMiner/internal/classify"
	"G2BLeadMiner/internal/domain"
	"G2BLeadMiner/internal/scoring"
)

// Fixed strings stamped onto every exported lead.
const (
	contactPolicy = "개인정보 최소수집/수신거부 및 야간발송 제한 준수"
	reviewNote    = "자동 산출 리드. 원문 공고에서 세부 요구사항 재확인 필요"
)

// Region prefixes checked in order against the agency name.
var regionNeedles = []string{
	"서울", "부산", "대구", "인천", "광주", "대전", "울산", "세종",
	"경기", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주",
}

var (
	yearRe    = regexp.MustCompile(`20\d{2}`)
	ordinalRe = regexp.MustCompile(`\d+차|\d+회`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Dedupe collapses notices sharing a (notice number, ordinal) key.
// The last occurrence in traversal order wins, keeping the most recently
// fetched amendment; output order is first distinct-key insertion order.
func Dedupe(notices []domain.RawNotice) []domain.RawNotice {
	index := make(map[domain.NoticeKey]int, len(notices))
	deduped := make([]domain.RawNotice, 0, len(notices))

	for _, notice := range notices {
		if at, seen := index[notice.Key()]; seen {
			deduped[at] = notice
			continue
		}
		index[notice.Key()] = len(deduped)
		deduped = append(deduped, notice)
	}

	return deduped
}

// Build classifies, scores, and ranks one deduplicated batch. Statistics
// cover the whole batch; the returned records are sorted by urgency
// descending (stable for ties) and truncated to topN.
func Build(notices []domain.RawNotice, asOf time.Time, topN int) ([]domain.LeadRecord, domain.SummaryStats) {
	repeated := repeatedTitleKeys(notices)

	stats := domain.SummaryStats{
		TotalNotices: len(notices),
		ByCategory:   map[string]int{},
		ByWorkType:   map[string]int{},
	}

	var records []domain.LeadRecord
	for _, notice := range notices {
		verdict := classify.Match(notice.Title)
		stats.ByWorkType[notice.WorkType]++
		if !classify.Positive(verdict.Category) {
			continue
		}

		deadline := scoring.ParseDeadline(notice.DeadlineDt)
		key := recurrenceKey{agency: notice.AgencyName, title: normalizeTitle(notice.Title)}
		_, repeat := repeated[key]
		score := scoring.Urgency(deadline, notice.BudgetAmt, repeat, asOf)

		stats.ByCategory[verdict.Category]++
		records = append(records, domain.LeadRecord{
			AsOfDate:      asOf.Format("2006-01-02"),
			NoticeNo:      notice.NoticeNo,
			NoticeOrd:     notice.NoticeOrd,
			Title:         notice.Title,
			WorkType:      notice.WorkType,
			AgencyName:    notice.AgencyName,
			RegionGuess:   detectRegion(notice.AgencyName),
			DeadlineDt:    orUnassigned(notice.DeadlineDt),
			BudgetAmt:     formatBudget(notice.BudgetAmt),
			Category:      verdict.Category,
			MatchStrength: math.Round(verdict.Strength*100) / 100,
			UrgencyScore:  score,
			SourceURL:     notice.SourceURL,
			ContactPolicy: contactPolicy,
			Notes:         reviewNote,
		})
	}

	stats.MatchedNotices = len(records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UrgencyScore > records[j].UrgencyScore
	})
	if topN < 0 {
		topN = 0
	}
	if len(records) > topN {
		records = records[:topN]
	}

	return records, stats
}

type recurrenceKey struct {
	agency string
	title  string
}

// repeatedTitleKeys finds (agency, normalized title) pairs posted at
// least twice in the batch. Repetition signals a recurring contract,
// typically an annual re-tender.
func repeatedTitleKeys(notices []domain.RawNotice) map[recurrenceKey]struct{} {
	counts := make(map[recurrenceKey]int, len(notices))
	for _, notice := range notices {
		key := recurrenceKey{agency: notice.AgencyName, title: normalizeTitle(notice.Title)}
		counts[key]++
	}

	repeated := make(map[recurrenceKey]struct{})
	for key, count := range counts {
		if count >= 2 {
			repeated[key] = struct{}{}
		}
	}
	return repeated
}

// normalizeTitle strips years and round/session ordinals so re-tenders
// of the same contract compare equal.
func normalizeTitle(title string) string {
	normalized := yearRe.ReplaceAllString(title, "")
	normalized = ordinalRe.ReplaceAllString(normalized, "")
	normalized = spaceRe.ReplaceAllString(normalized, " ")
	return strings.ToLower(strings.TrimSpace(normalized))
}

func detectRegion(agency string) string {
	for _, needle := range regionNeedles {
		if strings.Contains(agency, needle) {
			return needle
		}
	}
	return domain.Unassigned
}

func formatBudget(amount *float64) string {
	if amount == nil || *amount == 0 {
		return domain.Unassigned
	}
	return groupDigits(strconv.FormatInt(int64(*amount), 10))
}

func groupDigits(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var grouped strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		grouped.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if grouped.Len() > 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteString(digits[i : i+3])
	}
	return sign + grouped.String()
}

func orUnassigned(value string) string {
	if value == "" {
		return domain.Unassigned
	}
	return value
}
