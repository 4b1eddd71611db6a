package middleware

import (
	"net/http"
	"slices"

	"github.com/angelmondragon/vendorhub-backend/api/responses"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
)

// RequireRole admits callers whose account type is one of allowed. Callers
// that have not picked an account type yet get a distinct message so clients
// can route them to the selection screen.
func RequireRole(logg *logger.Logger, allowed ...enums.AccountType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := PrincipalFromContext(r.Context())
			switch {
			case caller.Role == "":
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account type selection required"))
			case !slices.Contains(allowed, caller.Role):
				err := pkgerrors.New(pkgerrors.CodeForbidden, "role required").
					WithDetails(map[string]any{"required": allowed})
				responses.WriteError(r.Context(), logg, w, err)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
