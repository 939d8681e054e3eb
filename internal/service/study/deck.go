package study

import (
	"errors"
	"math/rand/v2"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// ErrDeckFinished is returned by Mark when every card is already known.
var ErrDeckFinished = errors.New("deck finished")

// Card is one flashcard. The front is Word; the back is the meanings and an example.
type Card struct {
	Word     string              `json:"word"`
	Meanings []domain.Meaning    `json:"meanings"`
	Example  *domain.ExamplePair `json:"example,omitempty"`
	Tags     []string            `json:"tags"`
}

// Progress reports how far a study run has come.
type Progress struct {
	Known     int `json:"known"`
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
	Reviews   int `json:"reviews"`
}

// Deck is a flashcard study run. Cards marked "again" go to the back of the queue;
// cards marked known leave it. A Deck is not safe for concurrent use.
type Deck struct {
	cards   []Card
	queue   []int
	known   int
	reviews int
}

// NewDeck builds a deck from saved entries. A non-zero seed shuffles the cards
// deterministically; zero keeps the given order.
func NewDeck(entries []domain.SavedEntry, seed uint64) *Deck {
	d := &Deck{
		cards: make([]Card, 0, len(entries)),
		queue: make([]int, 0, len(entries)),
	}
	for i, e := range entries {
		d.cards = append(d.cards, newCard(e))
		d.queue = append(d.queue, i)
	}

	if seed != 0 {
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		r.Shuffle(len(d.queue), func(i, j int) {
			d.queue[i], d.queue[j] = d.queue[j], d.queue[i]
		})
	}
	return d
}

func newCard(e domain.SavedEntry) Card {
	c := Card{
		Word:     e.Word,
		Meanings: append([]domain.Meaning(nil), e.Entry.Meanings...),
		Tags:     append([]string(nil), e.Tags...),
	}
	if len(e.Entry.Examples) > 0 {
		ex := e.Entry.Examples[0]
		c.Example = &ex
	}
	return c
}

// Next returns the card at the front of the queue. ok is false when the deck is finished.
func (d *Deck) Next() (Card, bool) {
	if len(d.queue) == 0 {
		return Card{}, false
	}
	return d.cards[d.queue[0]], true
}

// Mark grades the current card.
func (d *Deck) Mark(known bool) error {
	if len(d.queue) == 0 {
		return ErrDeckFinished
	}

	d.reviews++
	head := d.queue[0]
	d.queue = d.queue[1:]
	if known {
		d.known++
		return nil
	}
	d.queue = append(d.queue, head)
	return nil
}

// Progress returns the current counters.
func (d *Deck) Progress() Progress {
	return Progress{
		Known:     d.known,
		Remaining: len(d.queue),
		Total:     len(d.cards),
		Reviews:   d.reviews,
	}
}

// Cards returns the remaining cards in queue order.
func (d *Deck) Cards() []Card {
	out := make([]Card, 0, len(d.queue))
	for _, i := range d.queue {
		out = append(out, d.cards[i])
	}
	return out
}
