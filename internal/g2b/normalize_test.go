package g2b

import (
	"strings"
	"testing"

	"G2BLeadMiner/internal/domain"
)

func TestNormalizeNoticeFieldAliases(t *testing.T) {
	t.Parallel()

	notice := NormalizeNotice(map[string]any{
		"bid_ntce_no": "SNAKE-1",
		"bid_ntce_nm": "직무역량 교육 용역",
		"workType":    "용역",
		"ntceInsttNm": "서울특별시",
	})

	if notice.NoticeNo != "SNAKE-1" {
		t.Fatalf("snake_case alias not honored: %q", notice.NoticeNo)
	}
	if notice.Title != "직무역량 교육 용역" {
		t.Fatalf("unexpected title: %q", notice.Title)
	}
	if notice.AgencyName != "서울특별시" {
		t.Fatalf("agency fallback alias not honored: %q", notice.AgencyName)
	}
	if notice.NoticeOrd != "0" {
		t.Fatalf("missing ordinal must default to 0, got %q", notice.NoticeOrd)
	}
}

func TestNormalizeNoticeCamelCaseWinsOverSnake(t *testing.T) {
	t.Parallel()

	notice := NormalizeNotice(map[string]any{
		"bidNtceNo":   "CAMEL-1",
		"bid_ntce_no": "SNAKE-1",
	})
	if notice.NoticeNo != "CAMEL-1" {
		t.Fatalf("alias priority violated: %q", notice.NoticeNo)
	}
}

func TestNormalizeNoticeSentinels(t *testing.T) {
	t.Parallel()

	notice := NormalizeNotice(map[string]any{})

	if notice.NoticeNo != domain.Unassigned {
		t.Fatalf("missing id must be sentinel, got %q", notice.NoticeNo)
	}
	if notice.Title != domain.Unassigned {
		t.Fatalf("missing title must be sentinel, got %q", notice.Title)
	}
	if notice.SourceURL != domain.Unassigned {
		t.Fatalf("unassigned id must yield sentinel URL, got %q", notice.SourceURL)
	}
	if notice.BudgetAmt != nil {
		t.Fatalf("missing budget must be nil, got %v", *notice.BudgetAmt)
	}
}

func TestNormalizeNoticeNumericID(t *testing.T) {
	t.Parallel()

	notice := NormalizeNotice(map[string]any{"bidNtceNo": float64(20250001)})
	if notice.NoticeNo != "20250001" {
		t.Fatalf("numeric id must render without exponent, got %q", notice.NoticeNo)
	}
}

func TestParseBudget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		item map[string]any
		want *float64
	}{
		{
			name: "comma separated string",
			item: map[string]any{"asignBdgtAmt": "123,456,789"},
			want: ptr(123456789.0),
		},
		{
			name: "placeholder falls through to next field",
			item: map[string]any{"asignBdgtAmt": "-", "presmptPrce": "5000"},
			want: ptr(5000.0),
		},
		{
			name: "numeric value",
			item: map[string]any{"budgetAmt": float64(750000)},
			want: ptr(750000.0),
		},
		{
			name: "nothing parseable",
			item: map[string]any{"asignBdgtAmt": "", "presmptPrce": "abc"},
			want: nil,
		},
	}

	for _, tc := range cases {
		got := parseBudget(tc.item)
		if tc.want == nil {
			if got != nil {
				t.Fatalf("%s: expected nil, got %v", tc.name, *got)
			}
			continue
		}
		if got == nil || *got != *tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, *tc.want)
		}
	}
}

func TestBuildNoticeURL(t *testing.T) {
	t.Parallel()

	got := BuildNoticeURL("2025/01 호", "2")
	if !strings.Contains(got, "bidNtceNo=2025%2F01+%ED%98%B8") {
		t.Fatalf("notice number must be query-escaped: %q", got)
	}
	if !strings.Contains(got, "bidNtceOrd=2") {
		t.Fatalf("ordinal missing from URL: %q", got)
	}

	if got := BuildNoticeURL("", "1"); got != domain.Unassigned {
		t.Fatalf("empty id must yield sentinel, got %q", got)
	}
	if got := BuildNoticeURL("N-1", ""); !strings.Contains(got, "bidNtceOrd=0") {
		t.Fatalf("empty ordinal must default to 0: %q", got)
	}
}

func ptr(v float64) *float64 { return &v }
