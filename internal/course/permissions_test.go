// AngelaMos | 2026
// permissions_test.go

package course

import (
	"testing"

	"github.com/carterperez-dev/courseware/internal/middleware"
)

func strptr(s string) *string { return &s }

func TestIsOwnerGrantsAllVerbsOnOwnedObjects(t *testing.T) {
	id := Identity{UserID: "u1", Role: middleware.RoleMember}
	owner := strptr("u1")

	for _, verb := range []Verb{VerbRead, VerbCreate, VerbUpdate, VerbDelete} {
		if !IsOwner(id, verb, owner) {
			t.Fatalf("owner denied verb %q on own object", verb)
		}
	}
}

func TestIsOwnerDeniesForeignAndUnownedObjects(t *testing.T) {
	id := Identity{UserID: "u1", Role: middleware.RoleMember}

	if IsOwner(id, VerbUpdate, strptr("u2")) {
		t.Fatalf("owner check granted on another user's object")
	}
	if IsOwner(id, VerbUpdate, nil) {
		t.Fatalf("owner check granted on unowned object")
	}
}

func TestIsModeratorGrantsOnlyReadAndUpdate(t *testing.T) {
	mod := Identity{UserID: "m1", Role: middleware.RoleModerator}
	owner := strptr("someone-else")

	if !IsModerator(mod, VerbRead, owner) {
		t.Fatalf("moderator denied read")
	}
	if !IsModerator(mod, VerbUpdate, owner) {
		t.Fatalf("moderator denied update")
	}
	if IsModerator(mod, VerbCreate, owner) {
		t.Fatalf("moderator granted create")
	}
	if IsModerator(mod, VerbDelete, owner) {
		t.Fatalf("moderator granted delete")
	}
}

func TestIsModeratorDeniesMembers(t *testing.T) {
	member := Identity{UserID: "u1", Role: middleware.RoleMember}

	if IsModerator(member, VerbRead, strptr("u2")) {
		t.Fatalf("member passed moderator check")
	}
}

func TestOwnerOrModeratorCombinator(t *testing.T) {
	ownerID := strptr("u1")

	owner := Identity{UserID: "u1", Role: middleware.RoleMember}
	mod := Identity{UserID: "m1", Role: middleware.RoleModerator}
	stranger := Identity{UserID: "u2", Role: middleware.RoleMember}

	if !OwnerOrModerator(owner, VerbDelete, ownerID) {
		t.Fatalf("owner denied delete")
	}
	if OwnerOrModerator(mod, VerbDelete, ownerID) {
		t.Fatalf("moderator granted delete on foreign object")
	}
	if !OwnerOrModerator(mod, VerbUpdate, ownerID) {
		t.Fatalf("moderator denied update")
	}
	if OwnerOrModerator(stranger, VerbUpdate, ownerID) {
		t.Fatalf("stranger granted update")
	}
}
