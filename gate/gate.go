// Package gate decides where navigation should go based on authentication
// status. The decision is a pure function of the session's two booleans
// and the current route's group, recomputed on every change to either, so
// it cannot produce a redirect loop.
package gate

// Route is an app navigation path.
type Route string

// Unauthenticated routes.
const (
	RouteWelcome        Route = "/"
	RouteLogin          Route = "/login"
	RouteRegister       Route = "/register"
	RouteForgotPassword Route = "/forgot-password"
	RouteResetPassword  Route = "/reset-password"
)

// Authenticated routes.
const (
	RouteDashboard      Route = "/dashboard"
	RouteBudgets        Route = "/budgets"
	RouteVault          Route = "/vault"
	RouteTransactions   Route = "/transactions"
	RouteProfile        Route = "/profile"
	RouteAddTransaction Route = "/add-transaction"
	RouteLockFunds      Route = "/lock-funds"
)

// Group classifies a route.
type Group int

const (
	// GroupUnauthenticated holds the welcome/login/register and password
	// reset screens.
	GroupUnauthenticated Group = iota
	// GroupAuthenticated holds the main app screens.
	GroupAuthenticated
)

var routeGroups = map[Route]Group{
	RouteWelcome:        GroupUnauthenticated,
	RouteLogin:          GroupUnauthenticated,
	RouteRegister:       GroupUnauthenticated,
	RouteForgotPassword: GroupUnauthenticated,
	RouteResetPassword:  GroupUnauthenticated,

	RouteDashboard:      GroupAuthenticated,
	RouteBudgets:        GroupAuthenticated,
	RouteVault:          GroupAuthenticated,
	RouteTransactions:   GroupAuthenticated,
	RouteProfile:        GroupAuthenticated,
	RouteAddTransaction: GroupAuthenticated,
	RouteLockFunds:      GroupAuthenticated,
}

// GroupOf returns the group of a route. Unknown routes are treated as
// authenticated app routes, so an unauthenticated user is always sent back
// to the entry screen rather than left on them.
func GroupOf(route Route) Group {
	if g, ok := routeGroups[route]; ok {
		return g
	}
	return GroupAuthenticated
}

// Action is what the navigation layer should do.
type Action int

const (
	// Hold renders nothing and performs no navigation while the session
	// is still settling.
	Hold Action = iota
	// Stay keeps the current route.
	Stay
	// Redirect replaces the current route with Decision.Target.
	Redirect
)

// Decision is the gate's output.
type Decision struct {
	Action Action
	Target Route
}

// Decide maps the session's status and the current route to a navigation
// action: authenticated users inside the unauthenticated group go to the
// dashboard, unauthenticated users outside it go to the welcome screen.
func Decide(isAuthenticated, isLoading bool, current Route) Decision {
	if isLoading {
		return Decision{Action: Hold}
	}
	group := GroupOf(current)
	if isAuthenticated && group == GroupUnauthenticated {
		return Decision{Action: Redirect, Target: RouteDashboard}
	}
	if !isAuthenticated && group != GroupUnauthenticated {
		return Decision{Action: Redirect, Target: RouteWelcome}
	}
	return Decision{Action: Stay}
}
