package cards

import "fmt"

type Reason int

const (
	CardCountInvalid Reason = iota
	AlphaWolfCardMissing
	PlayerCountInvalid
)

func (r Reason) String() string {
	switch r {
	case CardCountInvalid:
		return "CardCountInvalid"
	case AlphaWolfCardMissing:
		return "AlphaWolfCardMissing"
	case PlayerCountInvalid:
		return "PlayerCountInvalid"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// ValidationResult explains why a configuration cannot start a game.
type ValidationResult struct {
	Reason      Reason `json:"reason"`
	Description string `json:"description"`
	Card        Card   `json:"card,omitempty"`
}

func (v *ValidationResult) Error() string {
	if v.Card != "" {
		return fmt.Sprintf("%s: %s (%s)", v.Reason, v.Description, v.Card)
	}
	return fmt.Sprintf("%s: %s", v.Reason, v.Description)
}

// Validate checks counts against the seat count. It returns nil when a game
// can start.
func Validate(c Counts, seats int) *ValidationResult {
	for _, card := range All {
		count := c.Cards[card]
		if count < 0 {
			return &ValidationResult{Reason: CardCountInvalid, Description: "Too few selected", Card: card}
		}
		if count > Limit(card) {
			return &ValidationResult{Reason: CardCountInvalid, Description: "Too many selected", Card: card}
		}
	}

	if c.Cards[AlphaWolf] > 0 && (c.AlphaWolfCard == NoAlphaWolfCard || c.AlphaWolfCard == "") {
		return &ValidationResult{
			Reason:      AlphaWolfCardMissing,
			Description: "The Alpha Wolf middle card is not selected",
			Card:        AlphaWolf,
		}
	}

	if c.Total() != seats+MiddleCards {
		return &ValidationResult{
			Reason:      PlayerCountInvalid,
			Description: fmt.Sprintf("Wrong number of players for this deck: %d cards need %d players", c.Total(), c.Total()-MiddleCards),
		}
	}
	return nil
}
