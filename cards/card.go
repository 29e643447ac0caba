package cards

// Card is a card type. The zero value is used for "no card".
type Card string

const (
	AlphaWolf      Card = "alphaWolf"
	Werewolf       Card = "werewolf"
	DreamWolf      Card = "dreamWolf"
	MysticWolf     Card = "mysticWolf"
	Villager       Card = "villager"
	Seer           Card = "seer"
	Robber         Card = "robber"
	Minion         Card = "minion"
	Mason          Card = "mason"
	ApprenticeSeer Card = "appSeer"
	Witch          Card = "witch"
	Troublemaker   Card = "troublemaker"
	VillageIdiot   Card = "vIdiot"
	Insomniac      Card = "insomniac"
	Drunk          Card = "drunk"
)

// NoAlphaWolfCard is the alpha-wolf middle card selector meaning nothing was picked.
const NoAlphaWolfCard Card = "none"

// All lists every card in deck-building order.
var All = []Card{
	AlphaWolf,
	Werewolf,
	DreamWolf,
	MysticWolf,
	Villager,
	Seer,
	Robber,
	Minion,
	Mason,
	ApprenticeSeer,
	Witch,
	Troublemaker,
	VillageIdiot,
	Insomniac,
	Drunk,
}

// Wolves are the wolf-aligned cards.
var Wolves = []Card{Werewolf, AlphaWolf, MysticWolf, DreamWolf}

// AlphaWolfChoices are the legal values of the alpha-wolf middle card selector.
var AlphaWolfChoices = []Card{NoAlphaWolfCard, Werewolf, DreamWolf, MysticWolf}

// NightOrder is the fixed order roles are woken in.
var NightOrder = []Card{
	Werewolf,
	AlphaWolf,
	MysticWolf,
	Minion,
	Mason,
	Seer,
	ApprenticeSeer,
	Robber,
	Witch,
	Troublemaker,
	VillageIdiot,
	Drunk,
	Insomniac,
}

var limits = map[Card]int{
	Villager: 10,
	Werewolf: 2,
	Mason:    2,
}

// Limit is the most copies of c a deck may hold.
func Limit(c Card) int {
	if l, ok := limits[c]; ok {
		return l
	}
	return 1
}

func (c Card) Valid() bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

func (c Card) IsWolf() bool {
	for _, w := range Wolves {
		if c == w {
			return true
		}
	}
	return false
}

func ValidAlphaWolfChoice(c Card) bool {
	for _, choice := range AlphaWolfChoices {
		if c == choice {
			return true
		}
	}
	return false
}

// NextNightRole returns the role after current in NightOrder, or "" after the
// last one. An empty current yields the first role.
func NextNightRole(current Card) Card {
	next := 0
	if current != "" {
		next = -1
		for i, role := range NightOrder {
			if role == current {
				next = i + 1
				break
			}
		}
		if next < 0 {
			return ""
		}
	}
	if next >= len(NightOrder) {
		return ""
	}
	return NightOrder[next]
}
