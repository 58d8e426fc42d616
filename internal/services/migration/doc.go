// Package migration moves the legacy single-account credential layout into
// the namespaced multi-account layout.
//
// The Manager runs at most once per install. It validates the legacy
// material before writing, verifies every written field, and only then
// registers the account and marks it active. A failed run removes what it
// wrote and leaves the legacy layout untouched, so it can be retried.
package migration
