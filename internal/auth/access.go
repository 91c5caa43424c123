package auth

import (
	"fmt"
	"strings"

	"github.com/MatsuStefanie/cursomc/internal/domain"
)

// Authorize allows actor when it holds required or when it owns the resource.
// Owner id 0 never matches, so passing 0 makes the role mandatory.
func Authorize(actor *Principal, required domain.Role, ownerID uint) error {
	if actor == nil {
		return domain.ErrForbidden
	}
	if actor.HasRole(required) {
		return nil
	}
	if ownerID != 0 && actor.ID == ownerID {
		return nil
	}
	return fmt.Errorf("%w: resource %d", domain.ErrForbidden, ownerID)
}

// AuthorizeEmail is Authorize keyed by the actor's username instead of its id.
func AuthorizeEmail(actor *Principal, required domain.Role, email string) error {
	if actor == nil {
		return domain.ErrForbidden
	}
	if actor.HasRole(required) || (email != "" && strings.EqualFold(actor.Username, email)) {
		return nil
	}
	return domain.ErrForbidden
}
