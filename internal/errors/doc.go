// Package errors provides structured, actionable error and diagnostic
// messages for hydration.
//
// Every hydration outcome that a developer needs to hear about, whether a
// patched attribute, a discarded boundary or a provider that could not
// produce its tree, is described by a HydrateError carrying a registered code.
//
// # Error Categories
//
//   - hydration: server/client mismatches and recovery notices
//   - provider: a tree could not be produced
//   - config: invalid hydrate.json or environment values
//   - cli: invalid command-line input
//
// # Usage
//
//	err := errors.New("E043").
//	    WithPath("div.parent > footer.3").
//	    WithExcerpt(excerpt)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E043: Hydration mismatch: extra element on client
//	//
//	//   div.parent > footer.3
//	//
//	//       <div class="parent">
//	//         <header class="1">
//	//         <main class="2">
//	//   +     <footer class="3">
//	//
//	//   Learn more: https://vango.dev/docs/errors/E043
package errors
