// Package command installs packages by running an inline shell snippet.
package command
