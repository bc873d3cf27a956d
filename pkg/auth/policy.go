package auth

import (
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
)

// Require returns nil when the caller holds the capability and a 403
// otherwise. Services call this before any privileged read or write.
func Require(caller models.Caller, capability models.Capability) error {
	if caller.Can(capability) {
		return nil
	}
	return errcodes.Forbidden(describe(capability))
}

func describe(capability models.Capability) string {
	switch capability {
	case models.CapabilityMarkReturned:
		return "Managing loans without the can_mark_returned permission"
	default:
		return "Acting without the " + string(capability) + " permission"
	}
}
