// Package domain contains entities without transport logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxIdentityLen = 64

var (
	ErrIdentityTooLong = errors.New("identity too long")
	ErrIdentityEmpty   = errors.New("identity empty")
)

// Identity is an opaque participant name assigned outside this module.
// It is only used as a routing key.
type Identity string

func (id Identity) Validate() error {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return ErrIdentityEmpty
	}
	if len(s) > MaxIdentityLen {
		return ErrIdentityTooLong
	}
	return nil
}

func (id Identity) String() string { return string(id) }

// Pair is the ordered (local, remote) key the registry uses for uniqueness.
type Pair struct {
	Local  Identity
	Remote Identity
}

func (p Pair) String() string { return string(p.Local) + "|" + string(p.Remote) }
