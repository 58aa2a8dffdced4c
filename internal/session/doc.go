// Package session keeps one filter.State per browser. Sessions live in
// memory only and are dropped after a period without use.
package session
