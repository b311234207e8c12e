package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	src, err := ParseSource("calendar")
	require.NoError(t, err)
	assert.Equal(t, SourceCalendar, src)

	_, err = ParseSource("todos")
	assert.ErrorIs(t, err, common.ErrUnknownSource)
}

func TestNewCheckmarkDay(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	cd, err := NewCheckmarkDay("u1", day, Wins{"shipped", "ran", "read"})
	require.NoError(t, err)
	assert.Equal(t, 3, cd.WinCount)
	assert.True(t, cd.HasCheckmark)

	cd, err = NewCheckmarkDay("u1", day, Wins{"shipped"})
	require.NoError(t, err)
	assert.Equal(t, 1, cd.WinCount)
	assert.False(t, cd.HasCheckmark)

	_, err = NewCheckmarkDay("u1", day, Wins{"a", "b", "c", "d"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewCheckmarkDay("u1", day, Wins{"a", "  "})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestWinsCodec(t *testing.T) {
	b, err := EncodeWins(Wins{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))

	w, err := DecodeWins(b)
	require.NoError(t, err)
	assert.Equal(t, Wins{"a", "b"}, w)

	b, err = EncodeWins(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	w, err = DecodeWins(nil)
	require.NoError(t, err)
	assert.Empty(t, w)
}

func TestDecodeWins_RejectsBadData(t *testing.T) {
	for _, in := range []string{`{"a":1}`, `["a","b","c","d"]`, `[""]`, `not json`} {
		_, err := DecodeWins([]byte(in))
		assert.ErrorIs(t, err, common.ErrValidation, in)
	}
}

func TestSyncCredential_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&SyncCredential{}).Expired(now))
	assert.True(t, (&SyncCredential{ExpiresAt: &past}).Expired(now))
	assert.False(t, (&SyncCredential{ExpiresAt: &future}).Expired(now))
}
