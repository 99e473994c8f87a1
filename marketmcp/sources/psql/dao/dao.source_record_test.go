package dao

import (
	"context"
	"marketmcp/marketmcp/sources/psql"
	"marketmcp/marketmcp/sources/psql/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newTestDAO(t *testing.T) *SourceRecordDAO {
	t.Helper()
	db, err := psql.Open(context.Background(), sqlite.Open("file::memory:?cache=shared"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(db.Close)
	return NewSourceRecordDAO(db.DB)
}

func TestUpsertSourceRecords(t *testing.T) {
	ctx := context.Background()
	dao := newTestDAO(t)

	title := "first"
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, dao.UpsertSourceRecords(ctx, []models.SourceRecord{
		{URL: "https://a.example", FetchedAt: first, Title: &title, SavedPath: "one.json"},
		{URL: "https://b.example", FetchedAt: first.Add(time.Hour), SavedPath: "one.json"},
	}))

	newTitle := "second"
	require.NoError(t, dao.UpsertSourceRecords(ctx, []models.SourceRecord{
		{URL: "https://a.example", FetchedAt: first.Add(2 * time.Hour), Title: &newTitle, SavedPath: "two.json"},
	}))

	got, err := dao.GetSourceRecordByURL(ctx, "https://a.example")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", *got.Title)
	assert.Equal(t, "two.json", got.SavedPath)

	n, err := dao.CountSourceRecords(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	missing, err := dao.GetSourceRecordByURL(ctx, "https://nope.example")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, dao.UpsertSourceRecords(ctx, nil))
}
