// Package templates holds the templ components for the HTML pages.
package templates

//go:generate go tool templ generate
