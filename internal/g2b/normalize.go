package g2b

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"G2BLeadMiner/internal/domain"
)

const noticeDetailURL = "https://www.g2b.go.kr:8101/ep/invitation/publish/bidInfoDtl.do"

// The feed has shipped the same attribute under different field names
// over the years. Each logical attribute carries an ordered candidate
// list; the first present non-empty value wins.
var fieldAliases = map[string][]string{
	"noticeNo":  {"bidNtceNo", "bid_ntce_no"},
	"noticeOrd": {"bidNtceOrd", "bid_ntce_ord"},
	"title":     {"bidNtceNm", "bid_ntce_nm"},
	"workType":  {"bsnsDivNm", "workType"},
	"agency":    {"dminsttNm", "ntceInsttNm"},
	"published": {"bidNtceDt"},
	"deadline":  {"bidClseDt"},
}

var budgetFields = []string{"asignBdgtAmt", "presmptPrce", "budgetAmt"}

// NormalizeNotice maps one raw API item onto the canonical RawNotice.
// Missing identifier and descriptive fields become the unassigned
// sentinel so downstream grouping never matches on emptiness.
func NormalizeNotice(item map[string]any) domain.RawNotice {
	noticeNo := strings.TrimSpace(lookupField(item, "noticeNo"))
	noticeOrd := strings.TrimSpace(lookupField(item, "noticeOrd"))
	if noticeOrd == "" {
		noticeOrd = "0"
	}

	return domain.RawNotice{
		NoticeNo:   orUnassigned(noticeNo),
		NoticeOrd:  noticeOrd,
		Title:      orUnassigned(lookupField(item, "title")),
		WorkType:   orUnassigned(lookupField(item, "workType")),
		AgencyName: orUnassigned(lookupField(item, "agency")),
		NoticeDate: lookupField(item, "published"),
		DeadlineDt: lookupField(item, "deadline"),
		BudgetAmt:  parseBudget(item),
		SourceURL:  BuildNoticeURL(noticeNo, noticeOrd),
	}
}

// BuildNoticeURL synthesizes the canonical detail-page link. An absent
// notice number yields the unassigned sentinel instead of a broken URL.
func BuildNoticeURL(noticeNo, noticeOrd string) string {
	if noticeNo == "" {
		return domain.Unassigned
	}
	if noticeOrd == "" {
		noticeOrd = "0"
	}
	return fmt.Sprintf("%s?bidNtceNo=%s&bidNtceOrd=%s",
		noticeDetailURL, url.QueryEscape(noticeNo), url.QueryEscape(noticeOrd))
}

func lookupField(item map[string]any, logical string) string {
	for _, key := range fieldAliases[logical] {
		if value := stringValue(item[key]); value != "" {
			return value
		}
	}
	return ""
}

// parseBudget tries the budget candidates in priority order. Empty and
// placeholder values are skipped; nothing parseable yields nil.
func parseBudget(item map[string]any) *float64 {
	for _, key := range budgetFields {
		raw, ok := item[key]
		if !ok {
			continue
		}

		text := stringValue(raw)
		if text == "" || text == "-" {
			continue
		}

		text = strings.ReplaceAll(text, ",", "")
		amount, err := strconv.ParseFloat(text, 64)
		if err != nil {
			continue
		}
		return &amount
	}
	return nil
}

// stringValue renders a JSON scalar the way the feed intends it to read:
// numeric identifiers come back without an exponent or trailing zeros.
func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatFloat(v, 'f', 0, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func orUnassigned(value string) string {
	if strings.TrimSpace(value) == "" {
		return domain.Unassigned
	}
	return value
}
