// Package player plays audio clips through an external program with
// stop-then-play semantics.
package player
