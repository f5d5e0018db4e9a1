// Package markup holds server-produced markup as an immutable node arena.
//
// Nodes live in a single slice and refer to each other by NodeID through
// explicit parent, first-child, last-child and next-sibling links. A Tree is
// built once, by Parse or a Builder, and never changes afterwards.
//
// # Boundary markers
//
// Lazy-content boundaries are delimited in HTML by comments:
//
//	<!--$-->   content follows
//	<!--$?-->  fallback follows, content was still pending
//	<!--$!-->  fallback follows, content failed on the server
//	<!--/$-->  end of region
//
// The empty comment <!-- --> separates adjacent text nodes and is otherwise
// ignored.
package markup
