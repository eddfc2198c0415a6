package contract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/hoursight/schema"
	"github.com/tj/go-naturaldate"
)

// DefaultRemoteWindowMonths is how many calendar months a remote fetch covers
// when no range is given, counting the current month.
const DefaultRemoteWindowMonths = 3

// isoLikePattern matches inputs that must parse as an absolute month or date.
var isoLikePattern = regexp.MustCompile(`^\d{4}-\d{2}(-\d{2})?$`)

// currentMonthPhrases resolve to the month containing the reference time.
var currentMonthPhrases = map[string]struct{}{
	"now":        {},
	"today":      {},
	"this month": {},
}

// ParseMonthBound resolves a month bound given as YYYY-MM, YYYY-MM-DD, RFC3339
// or a natural-language phrase such as "3 months ago" or "last month".
// An empty string yields an empty (unbounded) key.
func ParseMonthBound(s string, now time.Time) (schema.MonthKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if key := schema.MonthKey(s); len(s) == 7 && key.Valid() {
		return key, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return schema.MonthKeyOf(t), nil
		}
	}
	if isoLikePattern.MatchString(s) {
		return "", fmt.Errorf("invalid month %q: expected YYYY-MM or YYYY-MM-DD", s)
	}
	if _, ok := currentMonthPhrases[strings.ToLower(s)]; ok {
		return schema.MonthKeyOf(now), nil
	}

	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	if t.Equal(now) {
		return "", fmt.Errorf("invalid month %q: expected YYYY-MM, YYYY-MM-DD or a phrase like '3 months ago'", s)
	}
	return schema.MonthKeyOf(t), nil
}

// DefaultRemoteRange returns the window used by remote fetches without an explicit range:
// the current month and the months before it, DefaultRemoteWindowMonths in total.
func DefaultRemoteRange(now time.Time) schema.MonthRange {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfMonth.AddDate(0, -(DefaultRemoteWindowMonths - 1), 0)
	return schema.MonthRange{
		Start: schema.MonthKeyOf(start),
		End:   schema.MonthKeyOf(now),
	}
}

// FillRemoteRange fills the open bounds of r from DefaultRemoteRange(now).
func FillRemoteRange(r schema.MonthRange, now time.Time) schema.MonthRange {
	def := DefaultRemoteRange(now)
	if r.Start == "" {
		r.Start = def.Start
	}
	if r.End == "" {
		r.End = def.End
	}
	return r
}
