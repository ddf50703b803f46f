// Package host bridges the document that holds the draft being edited.
//
// Hosts expose the two body operations in their native asynchronous shape
// (AsyncHost): the call returns immediately and a callback later receives an
// AsyncResult with a succeeded or failed status. Bridge turns that shape into
// blocking, context-aware ReadBody and WriteBody calls, converting a failed
// status into an *OperationError.
//
// Body content is always HTML. No retries are attempted at this layer.
package host
