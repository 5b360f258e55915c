package replay

type Input struct {
	TimeStamp  uint32 `json:"time_stamp" yaml:"time_stamp" cbor:"time_stamp"`
	InputState uint32 `json:"input_state" yaml:"input_state" cbor:"input_state"`
}

type Death struct {
	EntityID  uint32 `json:"entity_id" yaml:"entity_id" cbor:"entity_id"`
	TimeStamp uint32 `json:"time_stamp" yaml:"time_stamp" cbor:"time_stamp"`
}

// GameSettings fields are listed in the order they appear on the wire.
type GameSettings struct {
	Flags              uint32 `json:"flags" yaml:"flags" cbor:"flags"`
	MaxPlayers         uint32 `json:"max_players" yaml:"max_players" cbor:"max_players"`
	Duration           uint32 `json:"duration" yaml:"duration" cbor:"duration"`
	RoundDuration      uint32 `json:"round_duration" yaml:"round_duration" cbor:"round_duration"`
	StartingLives      uint32 `json:"starting_lives" yaml:"starting_lives" cbor:"starting_lives"`
	ScoringTypeID      uint32 `json:"scoring_type_id" yaml:"scoring_type_id" cbor:"scoring_type_id"`
	ScoreToWin         uint32 `json:"score_to_win" yaml:"score_to_win" cbor:"score_to_win"`
	GameSpeed          uint32 `json:"game_speed" yaml:"game_speed" cbor:"game_speed"`
	DamageMultiplier   uint32 `json:"damage_multiplier" yaml:"damage_multiplier" cbor:"damage_multiplier"`
	LevelSetID         uint32 `json:"level_set_id" yaml:"level_set_id" cbor:"level_set_id"`
	ItemSpawnRulesetID uint32 `json:"item_spawn_ruleset_id" yaml:"item_spawn_ruleset_id" cbor:"item_spawn_ruleset_id"`
	WeaponSpawnRateID  uint32 `json:"weapon_spawn_rate_id" yaml:"weapon_spawn_rate_id" cbor:"weapon_spawn_rate_id"`
	GadgetSpawnRateID  uint32 `json:"gadget_spawn_rate_id" yaml:"gadget_spawn_rate_id" cbor:"gadget_spawn_rate_id"`
	CustomGadgetsField uint32 `json:"custom_gadgets_field" yaml:"custom_gadgets_field" cbor:"custom_gadgets_field"`
	Variation          uint32 `json:"variation" yaml:"variation" cbor:"variation"`
}

type Hero struct {
	HeroID      uint32 `json:"hero_id" yaml:"hero_id" cbor:"hero_id"`
	CostumeID   uint32 `json:"costume_id" yaml:"costume_id" cbor:"costume_id"`
	StanceIndex uint32 `json:"stance_index" yaml:"stance_index" cbor:"stance_index"`
	// The second skin is written first
	WeaponSkin2 uint16 `json:"weapon_skin_2" yaml:"weapon_skin_2" cbor:"weapon_skin_2"`
	WeaponSkin1 uint16 `json:"weapon_skin_1" yaml:"weapon_skin_1" cbor:"weapon_skin_1"`
}

type PlayerType struct {
	ColorSchemeID  uint32             `json:"color_scheme_id" yaml:"color_scheme_id" cbor:"color_scheme_id"`
	SpawnBotID     uint32             `json:"spawn_bot_id" yaml:"spawn_bot_id" cbor:"spawn_bot_id"`
	CompanionID    uint32             `json:"companion_id" yaml:"companion_id" cbor:"companion_id"`
	EmitterID      uint32             `json:"emitter_id" yaml:"emitter_id" cbor:"emitter_id"`
	PlayerThemeID  uint32             `json:"player_theme_id" yaml:"player_theme_id" cbor:"player_theme_id"`
	TrailEffectID  uint32             `json:"trail_effect_id" yaml:"trail_effect_id" cbor:"trail_effect_id"`
	Taunts         [NUM_TAUNTS]uint32 `json:"taunts" yaml:"taunts" cbor:"taunts"`
	WinTauntID     uint16             `json:"win_taunt_id" yaml:"win_taunt_id" cbor:"win_taunt_id"`
	LoseTauntID    uint16             `json:"lose_taunt_id" yaml:"lose_taunt_id" cbor:"lose_taunt_id"`
	TauntDatabase  []uint32           `json:"taunt_database" yaml:"taunt_database" cbor:"taunt_database"`
	AvatarID       uint16             `json:"avatar_id" yaml:"avatar_id" cbor:"avatar_id"`
	Team           uint32             `json:"team" yaml:"team" cbor:"team"`
	ConnectionTime uint32             `json:"connection_time" yaml:"connection_time" cbor:"connection_time"`
	// Always HeroCount long
	Heroes           []Hero `json:"heroes" yaml:"heroes" cbor:"heroes"`
	IsBot            bool   `json:"is_bot" yaml:"is_bot" cbor:"is_bot"`
	HandicapsEnabled bool   `json:"handicaps_enabled" yaml:"handicaps_enabled" cbor:"handicaps_enabled"`

	// Only set when HandicapsEnabled is
	HandicapStockCount            *uint32 `json:"handicap_stock_count" yaml:"handicap_stock_count" cbor:"handicap_stock_count"`
	HandicapDamageMultiplier      *uint32 `json:"handicap_damage_multiplier" yaml:"handicap_damage_multiplier" cbor:"handicap_damage_multiplier"`
	HandicapDamageTakenMultiplier *uint32 `json:"handicap_damage_taken_multiplier" yaml:"handicap_damage_taken_multiplier" cbor:"handicap_damage_taken_multiplier"`
}

type Entity struct {
	ID         uint32     `json:"entity_id" yaml:"entity_id" cbor:"entity_id"`
	Name       string     `json:"name" yaml:"name" cbor:"name"`
	PlayerType PlayerType `json:"player_type" yaml:"player_type" cbor:"player_type"`
}

type Replay struct {
	Version      uint32       `json:"version" yaml:"version" cbor:"version"`
	RandomSeed   uint32       `json:"random_seed" yaml:"random_seed" cbor:"random_seed"`
	PlaylistID   uint32       `json:"playlist_id" yaml:"playlist_id" cbor:"playlist_id"`
	PlaylistName string       `json:"playlist_name" yaml:"playlist_name" cbor:"playlist_name"`
	OnlineGame   bool         `json:"online_game" yaml:"online_game" cbor:"online_game"`
	GameSettings GameSettings `json:"game_settings" yaml:"game_settings" cbor:"game_settings"`
	LevelID      uint32       `json:"level_id" yaml:"level_id" cbor:"level_id"`
	HeroCount    uint16       `json:"hero_count" yaml:"hero_count" cbor:"hero_count"`
	Entities     []Entity     `json:"entities" yaml:"entities" cbor:"entities"`
	Checksum     uint32       `json:"checksum" yaml:"checksum" cbor:"checksum"`
	// Keyed by the 5-bit entity id
	Inputs map[uint32][]Input `json:"inputs" yaml:"inputs" cbor:"inputs"`
	// Ascending by TimeStamp
	Deaths              []Death           `json:"deaths" yaml:"deaths" cbor:"deaths"`
	Length              uint32            `json:"length" yaml:"length" cbor:"length"`
	Results             map[uint32]uint16 `json:"results" yaml:"results" cbor:"results"`
	EndOfMatchFanfareID uint32            `json:"end_of_match_fan_fare_id" yaml:"end_of_match_fan_fare_id" cbor:"end_of_match_fan_fare_id"`
}

func (r *Replay) Entity(id uint32) *Entity {
	for i := range r.Entities {
		if r.Entities[i].ID == id {
			return &r.Entities[i]
		}
	}
	return nil
}
