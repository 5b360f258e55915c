package replay

import (
	"cmp"
	"slices"

	"github.com/cfoust/brparser/pkg/bits"
)

const (
	ENTITY_ID_BITS   = 5
	INPUT_STATE_BITS = 14
	NUM_TAUNTS       = 8
)

func readEntityID(c *bits.Cursor) (uint32, error) {
	return c.ReadUint(ENTITY_ID_BITS)
}

func readInput(c *bits.Cursor) (Input, error) {
	input := Input{}

	timeStamp, err := c.ReadUint32()
	if err != nil {
		return input, err
	}
	input.TimeStamp = timeStamp

	hasState, err := c.ReadBool()
	if err != nil {
		return input, err
	}

	if hasState {
		state, err := c.ReadUint(INPUT_STATE_BITS)
		if err != nil {
			return input, err
		}
		input.InputState = state
	}

	return input, nil
}

// readInputs returns every entity's inputs from one chunk. Records for the
// same entity id are appended in the order they appear.
func readInputs(c *bits.Cursor) (map[uint32][]Input, error) {
	inputs := make(map[uint32][]Input)

	err := readList(c, func() error {
		entityID, err := readEntityID(c)
		if err != nil {
			return err
		}

		count, err := c.ReadUint32()
		if err != nil {
			return err
		}

		existing := inputs[entityID]
		if existing == nil {
			existing = make([]Input, 0)
		}

		for i := uint32(0); i < count; i++ {
			input, err := readInput(c)
			if err != nil {
				return err
			}
			existing = append(existing, input)
		}

		inputs[entityID] = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return inputs, nil
}

func readSettings(c *bits.Cursor) (GameSettings, error) {
	s := GameSettings{}
	err := readUint32s(
		c,
		&s.Flags,
		&s.MaxPlayers,
		&s.Duration,
		&s.RoundDuration,
		&s.StartingLives,
		&s.ScoringTypeID,
		&s.ScoreToWin,
		&s.GameSpeed,
		&s.DamageMultiplier,
		&s.LevelSetID,
		&s.ItemSpawnRulesetID,
		&s.WeaponSpawnRateID,
		&s.GadgetSpawnRateID,
		&s.CustomGadgetsField,
		&s.Variation,
	)
	return s, err
}

func readHero(c *bits.Cursor) (Hero, error) {
	h := Hero{}
	if err := readUint32s(c, &h.HeroID, &h.CostumeID, &h.StanceIndex); err != nil {
		return h, err
	}

	err := readUint16s(c, &h.WeaponSkin2, &h.WeaponSkin1)
	return h, err
}

func readPlayerType(c *bits.Cursor, heroCount uint16) (PlayerType, error) {
	p := PlayerType{}

	err := readUint32s(
		c,
		&p.ColorSchemeID,
		&p.SpawnBotID,
		&p.CompanionID,
		&p.EmitterID,
		&p.TrailEffectID,
		&p.PlayerThemeID,
	)
	if err != nil {
		return p, err
	}

	for i := range p.Taunts {
		if err := readUint32s(c, &p.Taunts[i]); err != nil {
			return p, err
		}
	}

	if err := readUint16s(c, &p.WinTauntID, &p.LoseTauntID); err != nil {
		return p, err
	}

	p.TauntDatabase, err = collect(c, func(c *bits.Cursor) (uint32, error) {
		return c.ReadUint32()
	})
	if err != nil {
		return p, err
	}

	if err := readUint16s(c, &p.AvatarID); err != nil {
		return p, err
	}

	if err := readUint32s(c, &p.Team, &p.ConnectionTime); err != nil {
		return p, err
	}

	p.Heroes = make([]Hero, 0, heroCount)
	for i := uint16(0); i < heroCount; i++ {
		hero, err := readHero(c)
		if err != nil {
			return p, err
		}
		p.Heroes = append(p.Heroes, hero)
	}

	if p.IsBot, err = c.ReadBool(); err != nil {
		return p, err
	}

	if p.HandicapsEnabled, err = c.ReadBool(); err != nil {
		return p, err
	}

	if !p.HandicapsEnabled {
		return p, nil
	}

	// The wire order does not match the field order
	var damageTaken, stocks, damage uint32
	if err := readUint32s(c, &damageTaken, &stocks, &damage); err != nil {
		return p, err
	}
	p.HandicapDamageTakenMultiplier = &damageTaken
	p.HandicapStockCount = &stocks
	p.HandicapDamageMultiplier = &damage

	return p, nil
}

func readEntity(c *bits.Cursor, heroCount uint16) (Entity, error) {
	e := Entity{}

	id, err := c.ReadUint32()
	if err != nil {
		return e, err
	}
	e.ID = id

	if e.Name, err = c.ReadString(); err != nil {
		return e, err
	}

	e.PlayerType, err = readPlayerType(c, heroCount)
	return e, err
}

func readDeath(c *bits.Cursor) (Death, error) {
	d := Death{}

	entityID, err := readEntityID(c)
	if err != nil {
		return d, err
	}
	d.EntityID = entityID

	d.TimeStamp, err = c.ReadUint32()
	return d, err
}

// readDeaths returns the deaths ordered by time, whatever order they were
// written in.
func readDeaths(c *bits.Cursor) ([]Death, error) {
	deaths, err := collect(c, readDeath)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(deaths, func(a, b Death) int {
		return cmp.Compare(a.TimeStamp, b.TimeStamp)
	})

	return deaths, nil
}

func readResults(c *bits.Cursor) (map[uint32]uint16, error) {
	results := make(map[uint32]uint16)

	hasResults, err := c.ReadBool()
	if err != nil {
		return nil, err
	}

	if !hasResults {
		return results, nil
	}

	err = readList(c, func() error {
		entityID, err := readEntityID(c)
		if err != nil {
			return err
		}

		result, err := c.ReadUint16()
		if err != nil {
			return err
		}

		results[entityID] = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}
