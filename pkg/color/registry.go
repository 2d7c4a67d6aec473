package color

import (
	"fmt"
	"strings"
)

// Item names.
const (
	ItemFilename    = "filename"
	ItemStdFilename = "std_filename"
	ItemFunction    = "function"
	ItemStdFunction = "std_function"
	ItemArgument    = "argument"
)

// Attribute names.
const (
	AttrIntensity  = "intensity"
	AttrForeground = "foreground"
	AttrBackground = "background"
)

var (
	itemOrder = []string{ItemFilename, ItemStdFilename, ItemFunction, ItemStdFunction, ItemArgument}
	attrOrder = []string{AttrIntensity, AttrForeground, AttrBackground}
)

// Registry holds the configurable items. It is not safe for concurrent
// mutation; settings change only between renders.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns a registry with the default settings.
func NewRegistry() *Registry {
	r := &Registry{items: make(map[string]*Item, len(itemOrder))}
	for _, name := range itemOrder {
		r.items[name] = &Item{Name: name}
	}
	r.items[ItemArgument].Foreground = Yellow

	r.items[ItemFunction].Foreground = Black
	r.items[ItemFunction].Background = Magenta

	r.items[ItemStdFunction].Foreground = Cyan
	r.items[ItemStdFunction].Intensity = IntensityFaint

	r.items[ItemFilename].Foreground = Black
	r.items[ItemFilename].Background = Green

	r.items[ItemStdFilename].Foreground = Green
	return r
}

// Items returns the item names in display order.
func Items() []string {
	return append([]string(nil), itemOrder...)
}

// Attributes returns the attribute names in display order.
func Attributes() []string {
	return append([]string(nil), attrOrder...)
}

// Legal returns the accepted values for attribute.
func Legal(attribute string) ([]string, error) {
	switch attribute {
	case AttrIntensity:
		return append([]string(nil), intensityNames...), nil
	case AttrForeground, AttrBackground:
		return append([]string(nil), colorNames...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
}

// Keys returns every "<item> <attribute>" configuration key.
func Keys() []string {
	keys := make([]string, 0, len(itemOrder)*len(attrOrder))
	for _, it := range itemOrder {
		for _, a := range attrOrder {
			keys = append(keys, it+" "+a)
		}
	}
	return keys
}

// Item returns a copy of the named item.
func (r *Registry) Item(name string) (Item, bool) {
	it, ok := r.items[name]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Apply styles text with the named item. Unknown items leave text unchanged.
func (r *Registry) Apply(name, text string) string {
	it, ok := r.items[name]
	if !ok {
		return text
	}
	return it.Apply(text)
}

// Set assigns value to an item's attribute. On error the previous value is
// kept.
func (r *Registry) Set(item, attribute, value string) error {
	it, ok := r.items[item]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	switch attribute {
	case AttrIntensity:
		v, err := ParseIntensity(value)
		if err != nil {
			return fmt.Errorf("set %s %s: %w", item, attribute, err)
		}
		it.Intensity = v
	case AttrForeground, AttrBackground:
		v, err := ParseColor(value)
		if err != nil {
			return fmt.Errorf("set %s %s: %w", item, attribute, err)
		}
		if attribute == AttrForeground {
			it.Foreground = v
		} else {
			it.Background = v
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	return nil
}

// SetKey assigns value to the attribute named by key, "<item> <attribute>".
func (r *Registry) SetKey(key, value string) error {
	item, attribute, err := splitKey(key)
	if err != nil {
		return err
	}
	return r.Set(item, attribute, value)
}

// Get returns the current value of an item's attribute.
func (r *Registry) Get(item, attribute string) (string, error) {
	it, ok := r.items[item]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	switch attribute {
	case AttrIntensity:
		return it.Intensity.String(), nil
	case AttrForeground:
		return it.Foreground.String(), nil
	case AttrBackground:
		return it.Background.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
}

// GetKey returns the value of the attribute named by key.
func (r *Registry) GetKey(key string) (string, error) {
	item, attribute, err := splitKey(key)
	if err != nil {
		return "", err
	}
	return r.Get(item, attribute)
}

// ShowString describes the current value of an item's attribute.
func (r *Registry) ShowString(item, attribute string) (string, error) {
	v, err := r.Get(item, attribute)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("The current %s %s is: %s", item, attribute, v), nil
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	c := &Registry{items: make(map[string]*Item, len(r.items))}
	for name, it := range r.items {
		cp := *it
		c.items[name] = &cp
	}
	return c
}

func splitKey(key string) (item, attribute string, err error) {
	parts := strings.Fields(key)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: key %q (want \"<item> <attribute>\")", ErrUnknownAttribute, key)
	}
	return parts[0], parts[1], nil
}
