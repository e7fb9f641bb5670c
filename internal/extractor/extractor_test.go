package extractor_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestNormalizeDate(t *testing.T) {
	ex := extractor.New(extractor.WithClock(fixedClock))

	t.Run("equivalent_forms", func(t *testing.T) {
		for _, in := range []string{"2025년 5월 31일", "2025-05-31", "2025/5/31", "2025.5.31", "2025년5월31일"} {
			got, ok := ex.NormalizeDate(in)
			require.True(t, ok, in)
			assert.Equal(t, "2025-05-31", got, in)
		}
	})

	t.Run("month_day_uses_clock_year", func(t *testing.T) {
		got, ok := ex.NormalizeDate("6월 9일")
		require.True(t, ok)
		assert.Equal(t, "2026-06-09", got)
	})

	t.Run("invalid_calendar_dates_dropped", func(t *testing.T) {
		for _, in := range []string{"2025-13-01", "2025년 2월 30일", "2025/00/10", "13월 1일"} {
			_, ok := ex.NormalizeDate(in)
			assert.False(t, ok, in)
		}
	})

	t.Run("year_out_of_range_dropped", func(t *testing.T) {
		for _, in := range []string{"0212-3-4", "1899년 12월 31일", "2101-01-01"} {
			_, ok := ex.NormalizeDate(in)
			assert.False(t, ok, in)
		}
		got, ok := ex.NormalizeDate("1900-01-01")
		require.True(t, ok)
		assert.Equal(t, "1900-01-01", got)
	})

	t.Run("no_date", func(t *testing.T) {
		_, ok := ex.NormalizeDate("문서를 확인하세요")
		assert.False(t, ok)
	})
}

func TestFindDates(t *testing.T) {
	ex := extractor.New(extractor.WithClock(fixedClock))

	t.Run("rune_offsets", func(t *testing.T) {
		dates := ex.FindDates("가나다 2025-05-31")
		require.Len(t, dates, 1)
		assert.Equal(t, 4, dates[0].Start)
		assert.Equal(t, 14, dates[0].End)
		assert.Equal(t, "2025-05-31", dates[0].Text)
	})

	t.Run("month_day_inside_full_literal_not_repeated", func(t *testing.T) {
		dates := ex.FindDates("2025년 5월 31일 그리고 7월 1일")
		require.Len(t, dates, 2)
		assert.Equal(t, "2025-05-31", dates[0].Value)
		assert.Equal(t, "2026-07-01", dates[1].Value)
	})

	t.Run("full_width_digits_after_prepare", func(t *testing.T) {
		dates := ex.FindDates(extractor.PrepareText("기한 ２０２５－０５－３１"))
		require.Len(t, dates, 1)
		assert.Equal(t, "2025-05-31", dates[0].Value)
	})

	t.Run("digits_glued_to_literal_rejected", func(t *testing.T) {
		assert.Empty(t, ex.FindDates("12025-05-311"))
	})
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10만원", "100000"},
		{"1.5억원", "150000000"},
		{"87,000원", "87000"},
		{"5천원", "5000"},
		{"3 만 원", "30000"},
		{"1,200", "1200"},
		{"3천만원", "30000000"},
		{"1억 5천만원", "150000000"},
		{"5천3백만원", "53000000"},
		{"1만 5000원", "15000"},
		{"2억원", "200000000"},
		{"3천만", "30000000"},
		{"3만 1억원", "0"},
		{"0원", "0"},
		{"", "0"},
		{"없음", "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractor.NormalizeAmount(tt.in), tt.in)
	}
}

func TestFindAmounts(t *testing.T) {
	amounts := extractor.FindAmounts("수수료 87,000원과 가산금 10만원")
	require.Len(t, amounts, 2)
	assert.Equal(t, "87000", amounts[0].Value)
	assert.Equal(t, 4, amounts[0].Start)
	assert.Equal(t, "100000", amounts[1].Value)
}

func TestFindAmounts_CompoundMagnitudes(t *testing.T) {
	amounts := extractor.FindAmounts("과태료 1억 5천만원 또는 3천만원")
	require.Len(t, amounts, 2)
	assert.Equal(t, "1억 5천만원", amounts[0].Text)
	assert.Equal(t, "150000000", amounts[0].Value)
	assert.Equal(t, 4, amounts[0].Start)
	assert.Equal(t, "3천만원", amounts[1].Text)
	assert.Equal(t, "30000000", amounts[1].Value)
}

func TestExtractDeadlines(t *testing.T) {
	ex := extractor.New(extractor.WithClock(fixedClock))

	t.Run("adjacent_longest_keyword_wins", func(t *testing.T) {
		deadlines := ex.ExtractDeadlines("납부기한: 2025년 5월 31일까지 납부하여야 합니다.")
		require.Len(t, deadlines, 1)
		assert.Equal(t, "2025-05-31", deadlines[0].Date)
		assert.Equal(t, "납부기한", deadlines[0].Type)
		assert.Contains(t, deadlines[0].Context, "2025년 5월 31일")
	})

	t.Run("keyword_after_literal", func(t *testing.T) {
		deadlines := ex.ExtractDeadlines("기한은 2025-01-20까지입니다.")
		require.Len(t, deadlines, 1)
		assert.Equal(t, "2025-01-20", deadlines[0].Date)
	})

	t.Run("window_fallback", func(t *testing.T) {
		deadlines := ex.ExtractDeadlines("2025-03-10 (월) 오후 6시 까지 방문")
		require.Len(t, deadlines, 1)
		assert.Equal(t, "까지", deadlines[0].Type)
	})

	t.Run("dedup_by_date_first_hit_wins", func(t *testing.T) {
		deadlines := ex.ExtractDeadlines("제출기한 2025-06-30 입니다. 다시 안내드리면 2025년 6월 30일 마감입니다.")
		require.Len(t, deadlines, 1)
		assert.Equal(t, "제출기한", deadlines[0].Type)
	})

	t.Run("date_without_keyword_ignored", func(t *testing.T) {
		assert.Empty(t, ex.ExtractDeadlines("이 규정은 2025년 1월 1일에 개정되었습니다."))
	})

	t.Run("empty_input", func(t *testing.T) {
		deadlines := ex.ExtractDeadlines("")
		assert.NotNil(t, deadlines)
		assert.Empty(t, deadlines)
	})
}

func TestDeadlineHits_Offsets(t *testing.T) {
	ex := extractor.New(extractor.WithClock(fixedClock))
	hits := ex.DeadlineHits("안내 납부기한 2025-05-31")
	require.Len(t, hits, 1)
	assert.Equal(t, 8, hits[0].Start)
	assert.Equal(t, 18, hits[0].End)
	assert.Equal(t, "2025-05-31", hits[0].Literal)
}

func TestExtractObligations(t *testing.T) {
	t.Run("must_construction", func(t *testing.T) {
		obligations := extractor.ExtractObligations("모든 신고서는 관할 세무서에 제출해야 합니다.")
		require.NotEmpty(t, obligations)
		found := false
		for _, o := range obligations {
			if strings.Contains(o.Description, "제출해야 합니다") {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("dedup_repeated_sentence", func(t *testing.T) {
		once := extractor.ExtractObligations("신분증을 반드시 지참하셔야 합니다.")
		twice := extractor.ExtractObligations("신분증을 반드시 지참하셔야 합니다. 신분증을 반드시  지참하셔야 합니다.")
		assert.Equal(t, len(once), len(twice))
	})

	t.Run("description_truncated", func(t *testing.T) {
		long := "납세자는 " + strings.Repeat("관련 서류를 정리하고 ", 40) + "신고할 의무가 있습니다."
		obligations := extractor.ExtractObligations(long)
		require.NotEmpty(t, obligations)
		for _, o := range obligations {
			assert.LessOrEqual(t, utf8.RuneCountInString(o.Description), 200)
		}
	})

	t.Run("plain_text", func(t *testing.T) {
		obligations := extractor.ExtractObligations("오늘은 날씨가 맑습니다.")
		assert.NotNil(t, obligations)
		assert.Empty(t, obligations)
	})
}

func TestExtractPenalties(t *testing.T) {
	t.Run("amount_after_keyword", func(t *testing.T) {
		penalties := extractor.ExtractPenalties("기한 내 미납 시 과태료 10만원이 부과됩니다.")
		require.Len(t, penalties, 1)
		assert.Equal(t, domain.Penalty{Amount: "100000", Type: "과태료", Context: penalties[0].Context}, penalties[0])
	})

	t.Run("amount_before_keyword", func(t *testing.T) {
		penalties := extractor.ExtractPenalties("50000원의 벌금")
		require.Len(t, penalties, 1)
		assert.Equal(t, "벌금", penalties[0].Type)
		assert.Equal(t, "50000", penalties[0].Amount)
	})

	t.Run("unknown_amount_recorded_as_zero", func(t *testing.T) {
		penalties := extractor.ExtractPenalties("과태료가 부과될 수 있습니다.")
		require.Len(t, penalties, 1)
		assert.Equal(t, "과태료", penalties[0].Type)
		assert.Equal(t, domain.UnknownAmount, penalties[0].Amount)
		assert.False(t, penalties[0].HasKnownAmount())
	})

	t.Run("disposition_sentence", func(t *testing.T) {
		penalties := extractor.ExtractPenalties("영업정지 처분을 받을 수 있습니다")
		require.Len(t, penalties, 1)
		assert.Equal(t, "처분", penalties[0].Type)
	})

	t.Run("hit_carries_amount_span", func(t *testing.T) {
		hits := extractor.New().PenaltyHits("과태료는 50000원입니다")
		require.Len(t, hits, 1)
		assert.Equal(t, "50000원", hits[0].AmountText)
		assert.Equal(t, 5, hits[0].AmountStart)
		assert.Equal(t, 11, hits[0].AmountEnd)
	})
}

func TestExtractAccountNumbers(t *testing.T) {
	accounts := extractor.ExtractAccountNumbers("납부 계좌: 123-456-789012 (예금주: 시청). 문의 02-123-4567")
	require.Len(t, accounts, 1)
	assert.Equal(t, "123-456-789012", accounts[0].Number)

	assert.Empty(t, extractor.ExtractAccountNumbers("주문번호 123-456-789012"))
}

func TestExtract_Idempotent(t *testing.T) {
	ex := extractor.New(extractor.WithClock(fixedClock))
	text := `주민세 납부 안내
납부기한: 2025년 8월 31일까지 반드시 납부하여야 합니다.
기한 내 미납 시 가산금 3%가 부과되며 과태료 10만원이 부과됩니다.
입금 계좌: 110-234-567890 (예금주: 구청)
신청일 9월 5일 이전 방문 신청은 필수입니다.`

	first := ex.Extract(text)
	second := ex.Extract(text)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Deadlines)
	assert.NotEmpty(t, first.Obligations)
	assert.NotEmpty(t, first.Penalties)
	assert.Len(t, first.AccountNumbers, 1)
}
