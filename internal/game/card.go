package game

import "github.com/valyala/fastrand"

const (
	JackRank  = "J"
	HeartSuit = "♥"
)

var (
	DefaultSuits = []string{"♠", "♥", "♦", "♣"}
	DefaultRanks = []string{"6", "7", "8", "9", "10", "J", "Q", "K", "A"}
)

type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// BuildDeck returns the suits×ranks product. The J♥ card is appended when
// the configured alphabet does not produce it: the deck must always be
// able to carry the special role.
func BuildDeck(suits, ranks []string) []Card {
	deck := make([]Card, 0, len(suits)*len(ranks)+1)
	for _, suit := range suits {
		for _, rank := range ranks {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}

	for _, card := range deck {
		if card.Suit == HeartSuit && card.Rank == JackRank {
			return deck
		}
	}

	return append(deck, Card{Suit: HeartSuit, Rank: JackRank})
}

// Shuffle permutes the deck in place with an unbiased Fisher–Yates walk.
func Shuffle(deck []Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
}
