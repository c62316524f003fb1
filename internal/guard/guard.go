// Package guard makes navigation-admission decisions from the session
// store's derived predicates.
package guard

// Session is the read-only view of the session store the guard needs.
type Session interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Decision is the outcome of an admission check. When denied,
// RedirectTo names the view to send the user to; ReturnURL carries the
// originally requested target so login can bounce back.
type Decision struct {
	Allowed    bool
	RedirectTo string
	ReturnURL  string
}

const (
	loginView   = "login"
	catalogView = "catalog"
)

// Admission gates protected views.
type Admission struct {
	session Session
}

func New(session Session) *Admission {
	return &Admission{session: session}
}

// RequireAuth admits any authenticated session.
func (a *Admission) RequireAuth(target string) Decision {
	if a.session.IsAuthenticated() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: loginView, ReturnURL: target}
}

// RequireAdmin admits authenticated admins; authenticated non-admins
// are sent back to the catalog.
func (a *Admission) RequireAdmin(target string) Decision {
	if !a.session.IsAuthenticated() {
		return Decision{RedirectTo: loginView, ReturnURL: target}
	}
	if a.session.IsAdmin() {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: catalogView}
}
