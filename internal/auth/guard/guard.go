// Package guard decides whether a requested view renders or redirects,
// as a pure function of the session state. It has no side effects and is
// re-evaluated on every navigation and session transition.
package guard

// View classifies what a route expects from the session.
type View int

const (
	// ViewPublic renders regardless of session state.
	ViewPublic View = iota
	// ViewProtected renders only for an authenticated session.
	ViewProtected
	// ViewAnonymousOnly is for sign-in, sign-up and reset pages.
	ViewAnonymousOnly
)

// Redirect targets for the two rejection cases.
const (
	SignInPath = "/signin"
	HomePath   = "/"
)

type Action int

const (
	ActionRender Action = iota
	ActionRedirect
)

type Decision struct {
	Action   Action
	Location string
}

// Decide applies the gate rules: protected views bounce anonymous
// visitors to sign-in, anonymous-only views bounce signed-in visitors
// home, everything else renders.
func Decide(authenticated bool, view View) Decision {
	switch view {
	case ViewProtected:
		if !authenticated {
			return Decision{Action: ActionRedirect, Location: SignInPath}
		}
	case ViewAnonymousOnly:
		if authenticated {
			return Decision{Action: ActionRedirect, Location: HomePath}
		}
	}
	return Decision{Action: ActionRender}
}
