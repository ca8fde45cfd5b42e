package auth

import (
	"github.com/dmitrijs2005/docdrop/internal/common"
	"github.com/dmitrijs2005/docdrop/internal/server/models"
)

// Reason explains a Denial.
type Reason string

const (
	ReasonUnknownSubject Reason = "unknown subject"
	ReasonRoleMismatch   Reason = "role mismatch"
	ReasonNotVerified    Reason = "account not verified"
)

// Denial is returned by Policy.Authorize when access is refused.
// It matches common.ErrForbidden under errors.Is.
type Denial struct {
	Reason Reason
}

func (d *Denial) Error() string {
	return common.ErrForbidden.Error() + ": " + string(d.Reason)
}

func (d *Denial) Is(target error) bool {
	return target == common.ErrForbidden
}

// Policy decides whether the holder of validated claims may act with a role.
type Policy struct {
	// RequireVerified denies accounts that have not redeemed a verification token.
	RequireVerified bool
}

// Authorize returns nil to allow, or a *Denial. Rules are checked in order:
// the subject must resolve to account, the role must match, and, when
// RequireVerified is set, the account must be verified.
func (p Policy) Authorize(claims *Claims, account *models.Account, required models.Role) error {
	if claims == nil || account == nil || account.Email != claims.Subject {
		return &Denial{Reason: ReasonUnknownSubject}
	}

	if account.Role != required {
		return &Denial{Reason: ReasonRoleMismatch}
	}

	if p.RequireVerified && !account.Verified {
		return &Denial{Reason: ReasonNotVerified}
	}

	return nil
}
