package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/pkg/errs"
)

// MaxObservationLength bounds the text of a single observation, in runes.
const MaxObservationLength = 4000

var (
	// ErrObservationIsNotConstructed is returned when an Observation was not created through
	// NewObservation or RestoreObservation.
	ErrObservationIsNotConstructed = errors.New("Observation must be created via NewObservation constructor")
)

// Observation is an immutable audit or comment entry attached to an order.
// It has no setters after construction.
type Observation struct {
	id         kernel.UUID
	authorID   string
	authorName string
	text       string
	createdAt  time.Time

	isConstructed bool
}

// NewObservation creates an observation authored by author, or by the system actor
// when author is the zero value.
func NewObservation(id kernel.UUID, author kernel.Actor, text string, createdAt time.Time) (*Observation, error) {
	author = author.OrSystem()
	return RestoreObservation(id, author.ID(), author.Name(), text, createdAt)
}

// RestoreObservation rebuilds an observation from persisted state.
func RestoreObservation(id kernel.UUID, authorID, authorName, text string, createdAt time.Time) (*Observation, error) {
	if authorID == "" {
		system := kernel.SystemActor()
		authorID, authorName = system.ID(), system.Name()
	}

	obs := &Observation{
		authorID:      authorID,
		authorName:    authorName,
		createdAt:     normalizeTime(createdAt),
		isConstructed: true,
	}

	if err := errors.Join(
		obs.setID(id),
		obs.setText(text),
	); err != nil {
		return nil, err
	}

	return obs, nil
}

func (o *Observation) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrObservationIsNotConstructed
	}
	return nil
}

func (o *Observation) ID() kernel.UUID      { return o.id }
func (o *Observation) AuthorID() string     { return o.authorID }
func (o *Observation) AuthorName() string   { return o.authorName }
func (o *Observation) Text() string         { return o.text }
func (o *Observation) CreatedAt() time.Time { return o.createdAt }

func (o *Observation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Observation) setText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errs.NewValueIsRequiredError("text")
	}
	if n := utf8.RuneCountInString(text); n > MaxObservationLength {
		return errs.NewValueIsOutOfRangeError("text length", n, 1, MaxObservationLength)
	}
	o.text = text
	return nil
}
