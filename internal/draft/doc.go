// Package draft defines the values exchanged with the Bluebird rewriting
// service: the tone and action selectors, the feedback vote, and the Record
// snapshot of one completed rewrite.
//
// Tone and Action are closed enumerations as far as the front ends are
// concerned, but the session controller forwards whatever value it is given.
// Rejecting unknown values is left to the service.
package draft
