package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

const (
	slugMaxLen     = 100
	slugMaxSuffix  = 50
	slugInsertRuns = 3
)

// Slugify turns free text into [a-z0-9-]: diacritics stripped, runs of "-"
// collapsed, ends trimmed, capped at maxLen (100 when <= 0), fallback "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = slugMaxLen
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// EnsureUniqueSlug returns base if it is free in table.column, otherwise the
// first free of base-1, base-2, ... Comparison is case-insensitive.
// scopeFn may narrow the check (e.g. sections within one grade level).
func EnsureUniqueSlug(
	ctx context.Context,
	db *gorm.DB,
	table, column, base string,
	scopeFn func(*gorm.DB) *gorm.DB,
) (string, error) {
	slug := base
	for i := 0; i <= slugMaxSuffix; i++ {
		if i > 0 {
			suffix := fmt.Sprintf("-%d", i)
			slug = trimForSuffix(base, suffix, slugMaxLen) + suffix
		}
		q := db.WithContext(ctx).Table(table)
		if scopeFn != nil {
			q = scopeFn(q)
		}
		var count int64
		if err := q.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
	}
	return "", NewConflict("could not find a free slug for "+base, nil)
}

// CreateWithUniqueSlug picks a free slug and runs insert. When the insert loses
// a race on the slug's unique index it picks again, a few times at most.
func CreateWithUniqueSlug(
	ctx context.Context,
	db *gorm.DB,
	table, column, base string,
	scopeFn func(*gorm.DB) *gorm.DB,
	insert func(slug string) error,
) error {
	var lastErr error
	for attempt := 0; attempt < slugInsertRuns; attempt++ {
		slug, err := EnsureUniqueSlug(ctx, db, table, column, base, scopeFn)
		if err != nil {
			return err
		}
		lastErr = insert(slug)
		if lastErr == nil || !IsUniqueViolation(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// trimForSuffix cuts base so that base+suffix fits maxLen, trimming '-' at the end.
func trimForSuffix(base, suffix string, maxLen int) string {
	if maxLen <= 0 {
		return base
	}
	need := len(suffix)
	if need >= maxLen {
		return "x"
	}
	rs := []rune(base)
	if keep := maxLen - need; len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}
