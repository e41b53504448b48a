// Package idx mints ULID identifiers for request ids and stored media names.
package idx

import (
	"crypto/rand"
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

var ErrInvalid = errors.New("idx: invalid ulid")

// entropy is monotonic so ids minted in the same millisecond still sort.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a lexicographically sortable ID for the current UTC time.
func New() ID {
	return NewAt(time.Now().UTC())
}

func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Parse validates s as a ULID. Lower-case input is accepted and normalised.
func Parse(s string) (ID, error) {
	u, err := ulid.ParseStrict(strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalid
	}
	return ID(u.String()), nil
}

func (id ID) String() string { return string(id) }

// Lower is the lower-case form, used for file names on case-insensitive disks.
func (id ID) Lower() string { return strings.ToLower(string(id)) }

// FileName is the stored name for an upload: lower-case id plus ext.
func (id ID) FileName(ext string) string { return id.Lower() + ext }

// ParseFileName splits a name produced by FileName back into id and
// extension. Anything else, including paths, is ErrInvalid.
func ParseFileName(name string) (ID, string, error) {
	if name != path.Base(name) {
		return "", "", ErrInvalid
	}
	ext := path.Ext(name)
	id, err := Parse(strings.TrimSuffix(name, ext))
	if err != nil {
		return "", "", err
	}
	return id, ext, nil
}
