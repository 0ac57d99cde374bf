// Package ownership is the single place resource access is decided.
// Controllers call it before any mutation of an owned resource so the
// unauthenticated and wrong-owner cases stay distinguishable all the way
// up to the HTTP layer.
package ownership

import (
	"fmt"

	"rentdesk/internal/controllers"

	"github.com/google/uuid"
)

// RequireOwner checks that the caller is present and owns the resource.
// A nil caller maps to ErrUnauthenticated, an owner mismatch to
// ErrForbidden. The resource name only feeds the error message.
func RequireOwner(caller *uuid.UUID, owner uuid.UUID, resource string) error {
	if caller == nil || *caller == uuid.Nil {
		return fmt.Errorf("%w: no authenticated user for %s", controllers.ErrUnauthenticated, resource)
	}

	if *caller != owner {
		return fmt.Errorf("%w: user %s does not own %s", controllers.ErrForbidden, caller, resource)
	}

	return nil
}

// RequireParty allows any of the listed participants, used where a
// resource is visible to more than its owner (a maintenance request is
// shared between landlord and tenant).
func RequireParty(caller *uuid.UUID, resource string, parties ...uuid.UUID) error {
	if caller == nil || *caller == uuid.Nil {
		return fmt.Errorf("%w: no authenticated user for %s", controllers.ErrUnauthenticated, resource)
	}

	for _, party := range parties {
		if *caller == party {
			return nil
		}
	}

	return fmt.Errorf("%w: user %s is not a party to %s", controllers.ErrForbidden, caller, resource)
}
