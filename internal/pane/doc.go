// Package pane is a terminal rendition of the Bluebird task pane: tone and
// action pickers, a rewrite button that is disabled while a rewrite runs,
// thumbs up/down that stay disabled until a draft has been rewritten, and
// the status line.
package pane
