package domain

// Authorization policy. Every function here is pure: decisions are computed
// fresh per check and never cached across requests, since a user's role can
// change between requests.

// CanListUsers reports whether the actor may list all user accounts.
func CanListUsers(actor Role) bool {
	return actor.AtLeast(RoleOwner)
}

// CanRegisterUser reports whether a registration attempt is permitted.
// An authenticated owner may always register new users. An anonymous caller
// (actor == nil) may register only when the store holds zero users, the
// one-time bootstrap that creates the first owner.
func CanRegisterUser(actor *User, userCount int64) bool {
	if actor != nil {
		return actor.Role.AtLeast(RoleOwner)
	}
	return userCount == 0
}

// CanUpdateUser reports whether the actor may update the user identified by
// targetID. An empty targetID means the target is implicitly the actor
// themselves, which is always permitted. A target id that matches the actor's
// own id is likewise a self-update. Updating anyone else requires owner.
func CanUpdateUser(actor *User, targetID string) bool {
	if actor == nil {
		return false
	}
	if targetID == "" || targetID == actor.ID {
		return true
	}
	return actor.Role.AtLeast(RoleOwner)
}

// CanDeleteUser reports whether the actor may delete user accounts.
func CanDeleteUser(actor Role) bool {
	return actor.AtLeast(RoleOwner)
}

// CanManageDirectory reports whether the actor may create, update or delete
// directory entities (resources, locations, categories, providers). Reading
// directory data is public and needs no check.
func CanManageDirectory(actor Role) bool {
	return actor.AtLeast(RoleOwner)
}
