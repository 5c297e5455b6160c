package shared

import "net/http"

// Authorizer builds a role-gating middleware from accepted role labels.
// Handlers receive one so route declarations stay next to the resource
// without importing the auth package.
type Authorizer func(labels ...string) func(http.Handler) http.Handler
