package hydrate

import (
	"fmt"
	"strings"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// Matches reports whether a server node and a client node are the same kind
// of thing: both text, both boundaries, or elements with the same tag.
// Attributes and content are not looked at.
func Matches(tree *markup.Tree, server markup.NodeID, client *vdom.VNode) bool {
	if client == nil {
		return false
	}
	switch tree.Kind(server) {
	case markup.KindText:
		return client.Kind == vdom.KindText
	case markup.KindElement:
		return client.Kind == vdom.KindElement && strings.EqualFold(tree.Tag(server), client.Tag)
	case markup.KindBoundary:
		return client.Kind == vdom.KindBoundary
	case markup.KindRoot:
		return false
	default:
		panic(fmt.Sprintf("hydrate: unknown markup kind %d", tree.Kind(server)))
	}
}
