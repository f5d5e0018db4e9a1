package hydrate

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/hydrate/pkg/markup"
	"github.com/vango-dev/hydrate/pkg/vdom"
)

// DeltaOp says which side an attribute difference comes from.
type DeltaOp uint8

const (
	DeltaAdded   DeltaOp = iota + 1 // present on the client only
	DeltaRemoved                    // present on the server only
	DeltaChanged                    // present on both with different values
)

// String returns the string representation of the DeltaOp.
func (op DeltaOp) String() string {
	switch op {
	case DeltaAdded:
		return "added"
	case DeltaRemoved:
		return "removed"
	case DeltaChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// AttrDelta is one attribute difference between a matched element pair.
// Style properties are reported individually as "style.<property>".
type AttrDelta struct {
	Name   string
	Op     DeltaOp
	Server string
	Client string
}

// String renders the delta as name: server -> client.
func (d AttrDelta) String() string {
	switch d.Op {
	case DeltaAdded:
		return fmt.Sprintf("%s: (absent) -> %q", d.Name, d.Client)
	case DeltaRemoved:
		return fmt.Sprintf("%s: %q -> (absent)", d.Name, d.Server)
	default:
		return fmt.Sprintf("%s: %q -> %q", d.Name, d.Server, d.Client)
	}
}

// IsStyle reports whether the delta concerns one style property.
func (d AttrDelta) IsStyle() bool {
	return strings.HasPrefix(d.Name, stylePrefix)
}

// Property returns the attribute name, or the property for style deltas.
func (d AttrDelta) Property() string {
	return strings.TrimPrefix(d.Name, stylePrefix)
}

const stylePrefix = "style."

// bookkeeping names never reach the DOM as attributes, or are written by
// the framework itself.
var bookkeeping = map[string]bool{
	"key":                      true,
	"ref":                      true,
	"children":                 true,
	"data-hid":                 true,
	"dangerouslysetinnerhtml":  true,
	"suppresshydrationwarning": true,
}

// attrAliases maps client prop names onto HTML attribute names.
var attrAliases = map[string]string{
	"classname": "class",
	"htmlfor":   "for",
}

func isBookkeeping(name string) bool {
	return bookkeeping[name] || strings.HasPrefix(name, "_") || vdom.IsEventHandler(name)
}

// DiffAttrs computes the symmetric difference between a server element's
// attributes and a client element's props. Bookkeeping attributes and names
// for which ignore returns true are skipped. The result is sorted by name.
func DiffAttrs(server []markup.Attr, client vdom.Props, ignore func(name string) bool) []AttrDelta {
	skip := func(name string) bool {
		return isBookkeeping(name) || (ignore != nil && ignore(name))
	}

	serverVals := make(map[string]string, len(server))
	for _, a := range server {
		name := strings.ToLower(a.Name)
		if skip(name) {
			continue
		}
		serverVals[name] = a.Value
	}

	clientVals := make(map[string]string, len(client))
	var clientStyle any
	for key, value := range client {
		name := strings.ToLower(key)
		if alias, ok := attrAliases[name]; ok {
			// An explicit class or for wins over className or htmlFor.
			if _, explicit := client[alias]; explicit {
				continue
			}
			name = alias
		}
		if skip(name) {
			continue
		}
		if name == "style" {
			clientStyle = value
			continue
		}
		if s, ok := propValue(name, value); ok {
			clientVals[name] = s
		}
	}

	var deltas []AttrDelta
	for name, sv := range serverVals {
		if name == "style" {
			continue
		}
		cv, ok := clientVals[name]
		switch {
		case !ok:
			deltas = append(deltas, AttrDelta{Name: name, Op: DeltaRemoved, Server: sv})
		case !attrValuesEqual(name, sv, cv):
			deltas = append(deltas, AttrDelta{Name: name, Op: DeltaChanged, Server: sv, Client: cv})
		}
	}
	for name, cv := range clientVals {
		if _, ok := serverVals[name]; !ok {
			deltas = append(deltas, AttrDelta{Name: name, Op: DeltaAdded, Client: cv})
		}
	}

	serverStyle, hasServerStyle := serverVals["style"]
	if hasServerStyle || clientStyle != nil {
		deltas = append(deltas, diffStyle(ParseStyle(serverStyle), clientStyleMap(clientStyle))...)
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Name < deltas[j].Name })
	return deltas
}

// propValue converts a client prop to its attribute string. ok is false
// when the prop produces no attribute: nil, false booleans, functions.
func propValue(name string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		if vdom.IsBooleanAttr(name) {
			return "", v
		}
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []string:
		return strings.Join(v, " "), true
	case fmt.Stringer:
		return v.String(), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.Map, reflect.Struct, reflect.Pointer:
		return "", false
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return fmt.Sprintf("%v", value), true
}

// attrValuesEqual compares two attribute strings after normalization:
// boolean attributes by presence, numbers by value.
func attrValuesEqual(name, server, client string) bool {
	if vdom.IsBooleanAttr(name) {
		return true
	}
	return normalizeScalar(server) == normalizeScalar(client)
}

// normalizeScalar canonicalizes numeric strings ("1.0" and "1" compare
// equal) and trims surrounding white space.
func normalizeScalar(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

// ParseStyle parses a CSS declaration list into property → value.
// Property names are lower-cased except custom properties (--x), which are
// case-sensitive. Later declarations win.
func ParseStyle(css string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(css, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if !strings.HasPrefix(prop, "--") {
			prop = strings.ToLower(prop)
		}
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out[prop] = value
	}
	return out
}

// clientStyleMap accepts a CSS string or a property map. Map keys may be
// camelCase; values may be numbers.
func clientStyleMap(style any) map[string]string {
	switch v := style.(type) {
	case nil:
		return map[string]string{}
	case string:
		return ParseStyle(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, val := range v {
			out[vdom.CSSProperty(k)] = strings.TrimSpace(val)
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := propValue("", val); ok && val != nil {
				out[vdom.CSSProperty(k)] = strings.TrimSpace(s)
			}
		}
		return out
	default:
		return ParseStyle(fmt.Sprintf("%v", v))
	}
}

func diffStyle(server, client map[string]string) []AttrDelta {
	var deltas []AttrDelta
	for prop, sv := range server {
		cv, ok := client[prop]
		switch {
		case !ok:
			deltas = append(deltas, AttrDelta{Name: stylePrefix + prop, Op: DeltaRemoved, Server: sv})
		case normalizeScalar(sv) != normalizeScalar(cv):
			deltas = append(deltas, AttrDelta{Name: stylePrefix + prop, Op: DeltaChanged, Server: sv, Client: cv})
		}
	}
	for prop, cv := range client {
		if _, ok := server[prop]; !ok {
			deltas = append(deltas, AttrDelta{Name: stylePrefix + prop, Op: DeltaAdded, Client: cv})
		}
	}
	return deltas
}

// attrPatches turns attribute deltas into patches against target.
func attrPatches(target markup.NodeID, deltas []AttrDelta) []Patch {
	patches := make([]Patch, 0, len(deltas))
	for _, d := range deltas {
		p := Patch{Target: target, Key: d.Property(), Value: d.Client}
		switch {
		case d.IsStyle() && d.Op == DeltaRemoved:
			p.Op = PatchRemoveStyle
		case d.IsStyle():
			p.Op = PatchSetStyle
		case d.Op == DeltaRemoved:
			p.Op = PatchRemoveAttr
		default:
			p.Op = PatchSetAttr
		}
		patches = append(patches, p)
	}
	return patches
}
