// Package generator fills the audio tree: it synthesizes the assets of a
// manifest that are not on disk yet, pacing requests and giving up when
// the provider keeps failing.
package generator
