// Package batch helps tools that act on several drafts in one call: it parses
// draft ID arguments given as a string or an array and reports per-draft
// outcomes as one JSON document.
package batch
