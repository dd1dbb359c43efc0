package css

import (
	"errors"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/styledtree"
)

// ErrNoNode is flagged if a property is requested for a nil node.
var ErrNoNode = errors.New("cannot get property of nil style node")

// GetCascadedProperty gets the value of a property from the ancestors of
// a node. The search starts at the parent node and walks upwards until it
// finds a node with either computed styles or a specified value for key.
// If no ancestor carries the property, the CSS initial value is returned.
//
// Clients will usually call GetProperty(…) instead as this will respect
// CSS semantics for inherited properties.
func GetCascadedProperty(node *styledtree.StyNode, key string) (style.Property, error) {
	if node == nil {
		return style.NullStyle, ErrNoNode
	}
	for n := node.ParentNode(); n != nil; n = n.ParentNode() {
		if n.ComputedStyles() != nil {
			if p := n.Computed(key); !p.IsEmpty() {
				return p, nil
			}
		}
		if p := GetLocalProperty(n.Styles(), key); !p.IsEmpty() && !p.IsInherit() {
			if p.IsInitial() {
				return style.InitialValue(key), nil
			}
			return p, nil
		}
	}
	return style.InitialValue(key), nil
}

// GetProperty gets the value of a property. If the property is not set
// locally on the style node and the property is inheritable, he search
// cascades to parent property maps, if available.
//
// Specified values of "inherit" always cascade, "initial" resolves to the
// CSS initial value of the property.
func GetProperty(node *styledtree.StyNode, key string) (style.Property, error) {
	if node == nil {
		return style.NullStyle, ErrNoNode
	}
	p := GetLocalProperty(node.Styles(), key)
	switch {
	case p.IsInherit(), p.IsEmpty() && style.IsCascading(key):
		return GetCascadedProperty(node, key)
	case p.IsInitial():
		return style.InitialValue(key), nil
	case p.IsEmpty():
		tracer().Debugf("css get property: %s not set, using initial value", key)
		return style.InitialValue(key), nil
	}
	return p, nil
}

// GetLocalProperty returns a style property value, if it is set locally
// for a styled node's property map. No cascading is performed.
func GetLocalProperty(pmap *style.PropertyMap, key string) style.Property {
	groupname := style.GroupNameFromPropertyKey(key)
	var group *style.PropertyGroup
	group = pmap.Group(groupname)
	if group == nil {
		return style.NullStyle
	}
	p, _ := group.Get(key)
	return p
}
