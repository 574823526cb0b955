package domain

import (
	"fmt"
	"strings"
)

// Entity is a snapshot of one Home Assistant entity as returned by /api/states.
type Entity struct {
	ID         string
	Name       string
	State      string
	Attributes map[string]any
}

// Domain returns the entity_id prefix, e.g. "light" for "light.kitchen".
func (e Entity) Domain() string {
	return DomainOf(e.ID)
}

// Attr returns the attribute rendered as a string and whether it was present.
func (e Entity) Attr(key string) (string, bool) {
	v, ok := e.Attributes[key]
	if !ok || v == nil {
		return "", false
	}
	return FormatValue(v), true
}

// Number returns a numeric attribute. Home Assistant encodes numbers as JSON
// numbers, so anything else is treated as missing.
func (e Entity) Number(key string) (float64, bool) {
	switch v := e.Attributes[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// DialogData is the template data spoken for an entity.
func (e Entity) DialogData() map[string]string {
	return map[string]string{
		"dev_name": e.Name,
		"id":       e.ID,
		"state":    e.State,
	}
}

func DomainOf(entityID string) string {
	d, _, found := strings.Cut(entityID, ".")
	if !found {
		return ""
	}
	return d
}

// FormatValue renders an attribute value for speech. Whole floats lose
// their fractional part so "21.0" is spoken as "21".
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "on"
		}
		return "off"
	default:
		return fmt.Sprint(t)
	}
}
