// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

const (
	// idLength is the number of hex characters kept from each UUID.
	idLength = 8

	maxIDAttempts = 64
)

// ErrIDSourceExhausted is returned when an IDSource keeps producing ids that
// are already in use.
var ErrIDSourceExhausted = errors.New("cell id source keeps returning ids already in use")

type (
	// IDSource produces cell ids. Implementations need not guarantee
	// uniqueness; callers redraw on collision.
	IDSource interface {
		NextID() (string, error)
	}

	// RandomIDs draws ids from the first eight hex characters of a version 4
	// UUID read from R.
	RandomIDs struct {
		mu sync.Mutex
		r  io.Reader
	}

	// SequentialIDs yields Prefix followed by a counter: "cell-1", "cell-2"...
	// It is deterministic and meant for tests and reproducible output.
	SequentialIDs struct {
		Prefix string

		mu   sync.Mutex
		next int
	}
)

// NewRandomIDs returns a RandomIDs reading from r. A nil reader uses
// crypto/rand.
func NewRandomIDs(r io.Reader) *RandomIDs {
	if r == nil {
		r = rand.Reader
	}
	return &RandomIDs{r: r}
}

// DefaultIDs returns the production id source.
func DefaultIDs() IDSource {
	return NewRandomIDs(nil)
}

// NextID implements IDSource.
func (s *RandomIDs) NextID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := uuid.NewRandomFromReader(s.r)
	if err != nil {
		return "", fmt.Errorf("generate cell id: %w", err)
	}
	return u.String()[:idLength], nil
}

// NewSequentialIDs returns a SequentialIDs starting at 1.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{Prefix: prefix}
}

// NextID implements IDSource.
func (s *SequentialIDs) NextID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next), nil
}

func uniqueID(ids IDSource, used map[string]struct{}) (string, error) {
	if ids == nil {
		ids = DefaultIDs()
	}
	for range maxIDAttempts {
		id, err := ids.NextID()
		if err != nil {
			return "", err
		}
		if id == "" {
			continue
		}
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDSourceExhausted
}
