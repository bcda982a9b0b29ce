package domain

// Tier is the effective authorization level of an actor
type Tier string

const (
	TierSuperuser Tier = "SUPERUSER"
	TierElevated  Tier = "ELEVATED"
	TierStandard  Tier = "STANDARD"
)

// Classify maps an actor to its tier.
// The superuser flag wins over any profile tag; a missing profile is STANDARD.
func Classify(a Actor) Tier {
	if a.IsSuperuser {
		return TierSuperuser
	}
	if a.Profile == nil {
		return TierStandard
	}
	switch a.Profile.UserType {
	case UserTypeAdmin, UserTypeOwner:
		return TierElevated
	default:
		return TierStandard
	}
}

// IsAdminTier reports whether the actor may act across every department:
// a superuser or a profile tagged admin. The owner tag is elevated for
// viewing and deleting but does not grant see-all or edit-any.
func IsAdminTier(a Actor) bool {
	if a.IsSuperuser {
		return true
	}
	return a.Profile != nil && a.Profile.UserType == UserTypeAdmin
}
