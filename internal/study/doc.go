// Package study runs the interactive flashcard session in the terminal. It
// reads one command per line, applies it to a deck.State and renders the
// state again after every command. Study preferences are persisted through
// a settings.Store.
package study
