package models

// Operation names a role-gated mutation.
type Operation string

const (
	OpRecipeCreate    Operation = "recipe.create"
	OpRecipeUpdate    Operation = "recipe.update"
	OpRecipeDelete    Operation = "recipe.delete"
	OpProfileCreate   Operation = "profile.create"
	OpProfileUpdate   Operation = "profile.update"
	OpProfileDelete   Operation = "profile.delete"
	OpPasswordChange  Operation = "profile.password"
	OpSettingsUpdate  Operation = "settings.update"
)

// Allow is the single authorization decision point for every gated
// operation. targetID is the profile being acted on for profile operations
// and empty otherwise.
func Allow(actor Actor, op Operation, targetID string) bool {
	if actor.Role == RoleAdmin {
		// Admins may not remove their own account.
		if op == OpProfileDelete && targetID == actor.ID {
			return false
		}
		return true
	}

	switch op {
	case OpProfileUpdate, OpPasswordChange:
		return targetID == actor.ID
	}
	return false
}
