package index

import (
	"path/filepath"
	"testing"

	"github.com/cfoust/brparser/pkg/replay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(name string) replay.Summary {
	return replay.Summary{
		Version:      209,
		PlaylistName: name,
		LevelID:      4,
		Length:       180000,
		Participants: []replay.Participant{
			{EntityID: 1, Name: "one", Team: 1, Result: 1, HasResult: true, Deaths: 2},
			{EntityID: 2, Name: "two", Team: 2, IsBot: true},
		},
	}
}

func TestRecordAndFind(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)

	missing, err := Find(db, "0123456789abcdef")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = Record(db, "0123456789abcdef", "a.replay", summary("Ranked"))
	require.NoError(t, err)

	match, err := Find(db, "0123456789abcdef")
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.Equal(t, "a.replay", match.Path)
	assert.Equal(t, "Ranked", match.PlaylistName)
	assert.Equal(t, uint32(180000), match.Length)
	require.Len(t, match.Participants, 2)

	byName := make(map[string]*Participant)
	for _, participant := range match.Participants {
		byName[participant.Name] = participant
	}

	require.NotNil(t, byName["one"].Result)
	assert.Equal(t, uint16(1), *byName["one"].Result)
	assert.Equal(t, 2, byName["one"].Deaths)
	assert.Nil(t, byName["two"].Result)
	assert.True(t, byName["two"].IsBot)
}

func TestRecordReplaces(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)

	_, err = Record(db, "aaaaaaaaaaaaaaaa", "old.replay", summary("Casual"))
	require.NoError(t, err)
	_, err = Record(db, "aaaaaaaaaaaaaaaa", "new.replay", summary("Ranked"))
	require.NoError(t, err)
	_, err = Record(db, "bbbbbbbbbbbbbbbb", "other.replay", summary("Custom"))
	require.NoError(t, err)

	matches, err := Matches(db)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	match, err := Find(db, "aaaaaaaaaaaaaaaa")
	require.NoError(t, err)
	assert.Equal(t, "new.replay", match.Path)
	assert.Equal(t, "Ranked", match.PlaylistName)
	assert.Len(t, match.Participants, 2)

	var participants int64
	require.NoError(t, db.Model(&Participant{}).Count(&participants).Error)
	assert.Equal(t, int64(4), participants)
}
