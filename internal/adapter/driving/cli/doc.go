// Package cli is the terminal driving adapter used by pilotctl: the admin
// REPL over application.SessionController, the submit command over
// application.FormService, and a dump of the local fallback cache.
package cli
