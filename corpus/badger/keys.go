package badger

import (
	"fmt"

	"github.com/poiesic/agroqa/core"
)

// Key prefixes for stored data types
const (
	pairPrefix = "qapair"
)

// makePairKey generates a key for a pair by ID.
func makePairKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", pairPrefix, id))
}
