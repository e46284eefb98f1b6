// Package gui is the desktop front end of the study session: a fyne window
// with the flip card, the overview grid, the audio buttons and the same
// keyboard shortcuts as the terminal session.
package gui
