// Package testutil contains helpers used across tests to reduce boilerplate
// when scripting model replies and building fixtures. It is not intended for
// production usage.
package testutil
