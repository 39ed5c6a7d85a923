// Package games implements the quest's mini-games. Each game owns its own
// interaction state, decides when its success condition is met and reports
// that through an event.Sink exactly once.
package games
