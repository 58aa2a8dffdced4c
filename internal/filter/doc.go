// Package filter derives the rows displayed by the dashboard from the
// dataset and a session's sidebar controls.
//
// Apply is a pure function: the same dataset and State always give the
// same View. Memo caches views per State.Key so repeated renders of an
// unchanged selection skip the scan.
package filter
