package ownership

import (
	"testing"

	"rentdesk/internal/controllers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequireOwner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, RequireOwner(&owner, owner, "property"))
	})

	t.Run("nil caller is unauthenticated", func(t *testing.T) {
		err := RequireOwner(nil, owner, "property")
		assert.ErrorIs(t, err, controllers.ErrUnauthenticated)
	})

	t.Run("zero caller is unauthenticated", func(t *testing.T) {
		zero := uuid.Nil
		err := RequireOwner(&zero, owner, "property")
		assert.ErrorIs(t, err, controllers.ErrUnauthenticated)
	})

	t.Run("wrong owner is forbidden", func(t *testing.T) {
		err := RequireOwner(&other, owner, "property")
		assert.ErrorIs(t, err, controllers.ErrForbidden)
		assert.NotErrorIs(t, err, controllers.ErrUnauthenticated)
	})
}

func TestRequireParty(t *testing.T) {
	landlord := uuid.New()
	tenant := uuid.New()
	stranger := uuid.New()

	t.Run("either party passes", func(t *testing.T) {
		assert.NoError(t, RequireParty(&landlord, "maintenance request", landlord, tenant))
		assert.NoError(t, RequireParty(&tenant, "maintenance request", landlord, tenant))
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		err := RequireParty(&stranger, "maintenance request", landlord, tenant)
		assert.ErrorIs(t, err, controllers.ErrForbidden)
	})

	t.Run("nil caller is unauthenticated", func(t *testing.T) {
		err := RequireParty(nil, "maintenance request", landlord, tenant)
		assert.ErrorIs(t, err, controllers.ErrUnauthenticated)
	})
}
