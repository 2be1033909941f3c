// Package logging provides implementations of pgframe.Logger.
package logging
