// Package audiopath maps flashcards to the relative paths of their audio
// recordings. The layout is a versioned contract shared by playback and
// the audio generator; see FormatVersion.
package audiopath
