package replay

import (
	"sort"
)

type Participant struct {
	EntityID uint32 `json:"entity_id" yaml:"entity_id"`
	Name     string `json:"name" yaml:"name"`
	Team     uint32 `json:"team" yaml:"team"`
	IsBot    bool   `json:"is_bot" yaml:"is_bot"`
	// Zero when the replay recorded no result for the entity
	Result    uint16 `json:"result" yaml:"result"`
	HasResult bool   `json:"has_result" yaml:"has_result"`
	Deaths    int    `json:"deaths" yaml:"deaths"`
	Inputs    int    `json:"inputs" yaml:"inputs"`
}

// Summary is the part of a replay worth listing without keeping every input.
type Summary struct {
	Version      uint32        `json:"version" yaml:"version"`
	PlaylistID   uint32        `json:"playlist_id" yaml:"playlist_id"`
	PlaylistName string        `json:"playlist_name" yaml:"playlist_name"`
	OnlineGame   bool          `json:"online_game" yaml:"online_game"`
	LevelID      uint32        `json:"level_id" yaml:"level_id"`
	Length       uint32        `json:"length" yaml:"length"`
	Participants []Participant `json:"participants" yaml:"participants"`
}

func (r *Replay) Summarize() Summary {
	deaths := make(map[uint32]int)
	for _, death := range r.Deaths {
		deaths[death.EntityID]++
	}

	participants := make([]Participant, 0, len(r.Entities))
	for _, entity := range r.Entities {
		result, hasResult := r.Results[entity.ID]
		participants = append(participants, Participant{
			EntityID:  entity.ID,
			Name:      entity.Name,
			Team:      entity.PlayerType.Team,
			IsBot:     entity.PlayerType.IsBot,
			Result:    result,
			HasResult: hasResult,
			Deaths:    deaths[entity.ID],
			Inputs:    len(r.Inputs[entity.ID]),
		})
	}

	sort.Slice(participants, func(i, j int) bool {
		return participants[i].EntityID < participants[j].EntityID
	})

	return Summary{
		Version:      r.Version,
		PlaylistID:   r.PlaylistID,
		PlaylistName: r.PlaylistName,
		OnlineGame:   r.OnlineGame,
		LevelID:      r.LevelID,
		Length:       r.Length,
		Participants: participants,
	}
}
