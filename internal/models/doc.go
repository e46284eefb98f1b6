// Package models lists the OpenAI models usable for speech synthesis, so
// users can pick a value for the audio.openai_model setting.
package models
