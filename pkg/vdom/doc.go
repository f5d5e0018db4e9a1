// Package vdom provides the client render tree used during hydration.
//
// A VNode is a closed tagged variant over elements, text, fragments,
// boundaries and component hosts. Trees are produced by the component
// evaluator and handed to the hydrate package, which reads them but never
// mutates them.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// # Boundaries
//
// Boundary wraps content that may not be resolvable yet. While a boundary
// shows its fallback it is exempt from content comparison:
//
//	Boundary(P(Text("Loading...")),
//	    Ul(Li(Text("first"))),
//	)
package vdom
