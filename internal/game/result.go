// internal/game/result.go
//
// Result types returned by Engine.Submit. One struct covers all result
// types; fields beyond Type/Message/State are populated for turn_result
// only.

package game

import "github.com/bribethescale/go-server/internal/assets"

// Result type tags.
const (
	ResultTurn       = "turn_result"
	ResultEmptyInput = "empty_input"
	ResultDuplicate  = "duplicate_input"
	ResultEndCommand = "end_command"
	ResultGameOver   = "game_over"
)

// Rulings for turn results.
const (
	RulingCorrect = "Correct"
	RulingWrong   = "Wrong"
)

// ItemAsset is the display asset reference attached to a turn result.
type ItemAsset struct {
	AssetURL    string      `json:"asset_url"`
	Source      string      `json:"source"`
	SpriteSheet SpriteSheet `json:"sprite_sheet"`
}

// SpriteSheet describes the fixed 2x2 frame layout of generated sprites.
type SpriteSheet struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

func itemAsset(a assets.Asset) *ItemAsset {
	return &ItemAsset{
		AssetURL:    a.AssetURL,
		Source:      a.Source,
		SpriteSheet: SpriteSheet{Cols: 2, Rows: 2},
	}
}

// Result is the outcome of one Submit call.
type Result struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`

	Ruling             string     `json:"ruling,omitempty"`
	Pass               *bool      `json:"pass,omitempty"`
	CanonicalName      string     `json:"canonical_name,omitempty"`
	InterpretedMeaning string     `json:"interpreted_meaning,omitempty"`
	WeightG            int        `json:"weight_g,omitempty"`
	Reason             string     `json:"reason,omitempty"`
	Notes              any        `json:"notes,omitempty"`
	RuleFail           string     `json:"rule_fail,omitempty"`
	UIAnswer           string     `json:"ui_answer,omitempty"`
	ProgressionActions []string   `json:"progression_actions,omitempty"`
	ItemAsset          *ItemAsset `json:"item_asset,omitempty"`

	State Snapshot `json:"state"`
}
