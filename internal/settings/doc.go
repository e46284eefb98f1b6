// Package settings persists the study preferences (pinyin visibility and
// overview mode) as one JSON object under a single key. The object lives
// in a TOML file by default or in a SQLite database.
package settings
