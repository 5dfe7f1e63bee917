package messaging

import (
	"fmt"
	"strconv"
	"strings"
)

// GetEntry returns the first match from a map and handles keys as non case sensitive.
func GetEntry(m map[string]any, key string) any {
	key = strings.ToLower(key)
	for i, k := range m {
		if strings.ToLower(i) == key {
			return k
		}
	}

	return nil
}

// getString returns a string argument. Numbers and booleans are formatted.
func getString(m map[string]any, key string) (string, bool) {
	switch value := GetEntry(m, key).(type) {
	case string:
		return value, true
	case int:
		return strconv.Itoa(value), true
	case bool:
		return strconv.FormatBool(value), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(value), true
	}
}

// getBool parses a boolean argument, defaulting to false.
func getBool(m map[string]any, key string) bool {
	value, ok := getString(m, key)
	if !ok {
		return false
	}

	boolean, _ := strconv.ParseBool(value)

	return boolean
}

// getInt parses an integer argument, defaulting to 0.
func getInt(m map[string]any, key string) (int, error) {
	value, ok := getString(m, key)
	if !ok || value == "" {
		return 0, nil
	}

	return strconv.Atoi(value)
}
