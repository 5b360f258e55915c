package index

import (
	"errors"
	"time"

	"github.com/cfoust/brparser/pkg/replay"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// A decoded replay file
type Match struct {
	Entity

	// Cache key of the raw file
	Hash    string `gorm:"unique;not null;size:16"`
	Path    string
	Decoded time.Time

	Version      uint32
	PlaylistID   uint32
	PlaylistName string `gorm:"size:64"`
	OnlineGame   bool
	LevelID      uint32
	Length       uint32

	Participants []*Participant
}

type Participant struct {
	Entity

	MatchID  uint `gorm:"not null"`
	EntityID uint32
	Name     string `gorm:"size:64"`
	Team     uint32
	IsBot    bool
	// Null when the match recorded no result for this entity
	Result *uint16
	Deaths int
	Inputs int
}

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Match{}, &Participant{}); err != nil {
		return nil, err
	}

	return db, nil
}

func fromSummary(hash string, path string, summary replay.Summary) *Match {
	match := Match{
		Hash:         hash,
		Path:         path,
		Decoded:      time.Now(),
		Version:      summary.Version,
		PlaylistID:   summary.PlaylistID,
		PlaylistName: summary.PlaylistName,
		OnlineGame:   summary.OnlineGame,
		LevelID:      summary.LevelID,
		Length:       summary.Length,
	}

	for _, participant := range summary.Participants {
		var result *uint16
		if participant.HasResult {
			value := participant.Result
			result = &value
		}

		match.Participants = append(match.Participants, &Participant{
			EntityID: participant.EntityID,
			Name:     participant.Name,
			Team:     participant.Team,
			IsBot:    participant.IsBot,
			Result:   result,
			Deaths:   participant.Deaths,
			Inputs:   participant.Inputs,
		})
	}

	return &match
}

// Record stores the summary of the replay with the given hash, replacing
// whatever was recorded for it before.
func Record(db *gorm.DB, hash string, path string, summary replay.Summary) (*Match, error) {
	match := fromSummary(hash, path, summary)

	err := db.Transaction(func(tx *gorm.DB) error {
		existing := Match{}
		err := tx.Where(&Match{Hash: hash}).First(&existing).Error
		if err == nil {
			if err := tx.Where(&Participant{MatchID: existing.ID}).Delete(&Participant{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(match).Error
	})
	if err != nil {
		return nil, err
	}

	return match, nil
}

// Find returns nil when nothing has been recorded for hash.
func Find(db *gorm.DB, hash string) (*Match, error) {
	match := Match{}
	err := db.Preload("Participants").Where(&Match{Hash: hash}).First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &match, nil
}

func Matches(db *gorm.DB) ([]Match, error) {
	var matches []Match
	err := db.Preload("Participants").Order("id").Find(&matches).Error
	return matches, err
}
