package usecase

import "github.com/MatsuStefanie/cursomc/internal/domain"

// withDefaults fills the sort column and direction a listing uses when the
// caller leaves them empty.
func withDefaults(pr domain.PageRequest, orderBy, direction string) domain.PageRequest {
	if pr.OrderBy == "" {
		pr.OrderBy = orderBy
		if pr.Direction == "" {
			pr.Direction = direction
		}
	}
	return pr
}
