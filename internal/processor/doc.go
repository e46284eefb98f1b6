// Package processor contains the work behind every zhuyin command. It
// loads the data file, builds and filters the deck, resolves audio paths
// and coordinates the study session, audio generation, Anki export and
// the preference store. This package serves as the main coordinator
// between all other components.
package processor
