package helper_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	helper "cashierku_backend/internals/helpers"
	"cashierku_backend/internals/helpers/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type slugRow struct {
	ID    uint   `gorm:"primaryKey"`
	Scope string `gorm:"size:20"`
	Slug  string `gorm:"size:100;uniqueIndex"`
}

func (slugRow) TableName() string { return "slug_rows" }

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Grade 1":            "grade-1",
		"  Kindergarten  ":   "kindergarten",
		"Pré-École / Niño":   "pre-ecole-nino",
		"---":                "item",
		"Grade   7 -- Rizal": "grade-7-rizal",
	}
	for in, want := range cases {
		assert.Equal(t, want, helper.Slugify(in, 0), in)
	}
	assert.Equal(t, "abc", helper.Slugify("abc-def", 4))
}

func TestEnsureUniqueSlug_AppendsCounter(t *testing.T) {
	db := testdb.Open(t, &slugRow{})
	ctx := context.Background()

	first, err := helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "grade-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "grade-1", first)
	require.NoError(t, db.Create(&slugRow{Slug: first}).Error)

	second, err := helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "grade-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "grade-1-1", second)
	require.NoError(t, db.Create(&slugRow{Slug: second}).Error)

	third, err := helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "grade-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "grade-1-2", third)
}

func TestEnsureUniqueSlug_Scoped(t *testing.T) {
	db := testdb.Open(t, &slugRow{})
	ctx := context.Background()
	require.NoError(t, db.Create(&slugRow{Scope: "a", Slug: "rizal"}).Error)

	scopeB := func(q *gorm.DB) *gorm.DB { return q.Where("scope = ?", "b") }
	got, err := helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "rizal", scopeB)
	require.NoError(t, err)
	assert.Equal(t, "rizal", got)
}

func TestCreateWithUniqueSlug_RetriesOnUniqueViolation(t *testing.T) {
	db := testdb.Open(t, &slugRow{})
	ctx := context.Background()

	calls := 0
	err := helper.CreateWithUniqueSlug(ctx, db, "slug_rows", "slug", "grade-2", nil, func(slug string) error {
		calls++
		if calls == 1 {
			// another writer took the slug between the check and the insert
			require.NoError(t, db.Create(&slugRow{Slug: slug}).Error)
			return db.Create(&slugRow{Slug: slug}).Error
		}
		return db.Create(&slugRow{Slug: slug}).Error
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	var slugs []string
	require.NoError(t, db.Model(&slugRow{}).Order("id").Pluck("slug", &slugs).Error)
	assert.Equal(t, []string{"grade-2", "grade-2-1"}, slugs)
}

func TestCreateWithUniqueSlug_OtherErrorsNotRetried(t *testing.T) {
	db := testdb.Open(t, &slugRow{})
	boom := errors.New("boom")
	calls := 0
	err := helper.CreateWithUniqueSlug(context.Background(), db, "slug_rows", "slug", "x", nil, func(string) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestEnsureUniqueSlug_LastSuffixIsUsable(t *testing.T) {
	db := testdb.Open(t, &slugRow{})
	ctx := context.Background()
	require.NoError(t, db.Create(&slugRow{Slug: "rizal"}).Error)
	for i := 1; i < 50; i++ {
		require.NoError(t, db.Create(&slugRow{Slug: fmt.Sprintf("rizal-%d", i)}).Error)
	}

	got, err := helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "rizal", nil)
	require.NoError(t, err)
	assert.Equal(t, "rizal-50", got)

	require.NoError(t, db.Create(&slugRow{Slug: got}).Error)
	_, err = helper.EnsureUniqueSlug(ctx, db, "slug_rows", "slug", "rizal", nil)
	assert.True(t, helper.IsConflict(err), "got %v", err)
}
