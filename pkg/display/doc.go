// Package display renders install progress, plans and status tables for
// the terminal. Colours follow the style package setup, so the same
// output is plain when piped.
package display
