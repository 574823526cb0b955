package main

import (
	"fmt"
	"strings"
)

// parseSlots reads name=value pairs. Values may contain '='.
func parseSlots(pairs []string) (map[string]string, error) {
	slots := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("slot %q is not name=value", pair)
		}
		slots[name] = value
	}
	return slots, nil
}
