package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by updates and deletes that target a missing row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an influencer id is already taken.
	ErrDuplicate = errors.New("duplicate id")
)

type Influencer struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category,omitempty"`
	Description string             `json:"description,omitempty"`
	Attributes  map[string]float64 `json:"attributes"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share attribute maps with the store.
func (i *Influencer) Clone() *Influencer {
	c := *i
	c.Attributes = make(map[string]float64, len(i.Attributes))
	for k, v := range i.Attributes {
		c.Attributes[k] = v
	}
	return &c
}

type InfluencerFilter struct {
	Category string
	Limit    int
	Offset   int
}

// Criterion is the persisted form of a scoring criterion. Position fixes the
// column order of the decision matrix.
type Criterion struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Direction   string  `json:"direction" yaml:"direction"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Position    int     `json:"position" yaml:"-"`
}

// Store holds the mutable session state: the candidate list and the criteria set.
// Listing preserves insertion order, which is the ranking tie-break order.
type Store interface {
	CreateInfluencer(ctx context.Context, inf *Influencer) error
	// GetInfluencer returns nil, nil when the influencer does not exist.
	GetInfluencer(ctx context.Context, id uuid.UUID) (*Influencer, error)
	ListInfluencers(ctx context.Context, filter InfluencerFilter) ([]*Influencer, error)
	UpdateInfluencer(ctx context.Context, inf *Influencer) error
	DeleteInfluencer(ctx context.Context, id uuid.UUID) error
	CountInfluencers(ctx context.Context) (int, error)

	GetCriteria(ctx context.Context) ([]*Criterion, error)
	ReplaceCriteria(ctx context.Context, criteria []*Criterion) error

	Close() error
}
