// AngelaMos | 2026
// permissions.go

package course

import (
	"github.com/carterperez-dev/courseware/internal/middleware"
)

type Verb string

const (
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

type Identity struct {
	UserID string
	Role   string
}

// Capability decides whether an identity may perform a verb against an
// object owned by ownerID. A nil ownerID means the object is unowned.
type Capability func(id Identity, verb Verb, ownerID *string) bool

// IsOwner grants every verb, but only on objects the identity owns.
func IsOwner(id Identity, verb Verb, ownerID *string) bool {
	return ownerID != nil && *ownerID == id.UserID
}

// IsModerator grants read and update to moderators on any object.
// Moderators cannot create or delete content they do not own.
func IsModerator(id Identity, verb Verb, ownerID *string) bool {
	if id.Role != middleware.RoleModerator {
		return false
	}
	return verb == VerbRead || verb == VerbUpdate
}

// AnyOf grants when at least one capability grants.
func AnyOf(caps ...Capability) Capability {
	return func(id Identity, verb Verb, ownerID *string) bool {
		for _, cap := range caps {
			if cap(id, verb, ownerID) {
				return true
			}
		}
		return false
	}
}

var OwnerOrModerator = AnyOf(IsOwner, IsModerator)
