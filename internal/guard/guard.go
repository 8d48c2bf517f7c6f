// Package guard gates navigation into role-scoped portal areas. Guards
// check only the presence of a stored credential, never its validity
// against the server: validity is discovered lazily when the first
// authenticated call inside the guarded view fails, which then clears
// the credential and redirects. Guards themselves stay synchronous and
// side-effect-free.
package guard

import (
	"context"
	"net/http"

	"github.com/aarogyalekha/hospital-portal/internal/session"
	"github.com/rs/zerolog/log"
)

// Login routes each guard redirects to. A guard never redirects to the
// other role's login surface.
const (
	AdminLoginPath  = "/portal/admin/login"
	DoctorLoginPath = "/portal/doctor/login"
)

type contextKey string

const credentialKey contextKey = "credential"

// Admitted is the pure predicate behind both guards: a role-scoped view
// is admitted iff that role's credential is present.
func Admitted(snap session.Snapshot, role session.Role) bool {
	return snap.Get(role) != nil
}

// RequireAdmin admits requests holding an admin credential and
// redirects the rest to the admin login surface.
func RequireAdmin(store session.Store) func(http.Handler) http.Handler {
	return require(store, session.RoleAdmin, AdminLoginPath)
}

// RequireDoctor admits requests holding a doctor credential and
// redirects the rest to the doctor login surface.
func RequireDoctor(store session.Store) func(http.Handler) http.Handler {
	return require(store, session.RoleDoctor, DoctorLoginPath)
}

func require(store session.Store, role session.Role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, err := store.Snapshot(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("Failed to read session store")
				http.Error(w, "Session store unavailable", http.StatusInternalServerError)
				return
			}

			if !Admitted(snap, role) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), credentialKey, snap.Get(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CredentialFrom returns the credential the guard admitted the request
// under.
func CredentialFrom(ctx context.Context) (*session.Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(*session.Credential)
	return cred, ok
}
