// Package render serializes VNode trees to server markup.
//
// The output is plain HTML plus the comment markers package markup reads
// back:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// A boundary is written as <!--$--> content <!--/$-->. A boundary presenting
// its fallback is written with <!--$?-->. When rendering a boundary's content
// panics, the fallback is written with <!--$!--> instead and the failure is
// available from Failures; the client then renders that boundary itself.
//
// Adjacent text nodes are separated by <!-- --> so that parsing yields the
// same text nodes. Attributes are written in name order; event handlers,
// keys and other bookkeeping props are not written.
package render
