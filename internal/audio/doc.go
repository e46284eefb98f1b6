// Package audio synthesizes Mandarin speech for the flashcard audio tree.
// Providers wrap the OpenAI and Gemini speech APIs and the local espeak-ng
// engine behind one interface; any of them can be paired with a fallback.
package audio
