package game

import "testing"

func TestBuildDeck(t *testing.T) {
	t.Parallel()

	deck := BuildDeck(DefaultSuits, DefaultRanks)
	if len(deck) != len(DefaultSuits)*len(DefaultRanks) {
		t.Fatalf("expected %d cards, got %d", len(DefaultSuits)*len(DefaultRanks), len(deck))
	}

	seen := map[Card]bool{}
	for _, card := range deck {
		if seen[card] {
			t.Errorf("duplicate card %v", card)
		}
		seen[card] = true
	}

	if !seen[Card{Suit: HeartSuit, Rank: JackRank}] {
		t.Error("deck must contain the J♥ card")
	}
}

func TestBuildDeckAppendsMissingJack(t *testing.T) {
	t.Parallel()

	deck := BuildDeck([]string{"♠", "♣"}, []string{"A", "K"})
	if len(deck) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(deck))
	}

	last := deck[len(deck)-1]
	if last.Suit != HeartSuit || last.Rank != JackRank {
		t.Errorf("expected appended J♥, got %v", last)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	deck := BuildDeck(DefaultSuits, DefaultRanks)
	before := map[Card]int{}
	for _, card := range deck {
		before[card]++
	}

	Shuffle(deck)

	after := map[Card]int{}
	for _, card := range deck {
		after[card]++
	}

	if len(before) != len(after) {
		t.Fatalf("shuffle changed the card set: %d vs %d", len(before), len(after))
	}
	for card, n := range before {
		if after[card] != n {
			t.Errorf("card %v count changed from %d to %d", card, n, after[card])
		}
	}
}
