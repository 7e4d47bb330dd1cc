// Package ui holds the console interactions of the token generator: blocking
// acknowledgment prompts, the progress spinner shown while waiting for the
// browser consent, and the summary table of generated artifacts.
package ui
