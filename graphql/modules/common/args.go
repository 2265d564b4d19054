package common

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Decode copies resolver arguments into a struct with mapstructure tags. Arguments the
// client left out stay at their zero value, so pointer fields distinguish "absent" from 0.
func Decode(args map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// IntID reads a numeric ID argument. ok is false when the argument is absent.
func IntID(args map[string]interface{}, name string) (id int, ok bool, err error) {
	raw, present := args[name]
	if !present || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case string:
		id, err = strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("invalid %s %q", name, v)
		}
		return id, true, nil
	default:
		return 0, false, fmt.Errorf("invalid %s %v", name, raw)
	}
}

// String reads an optional string argument.
func String(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}

// Int reads an optional int argument.
func Int(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(int)
	return v, ok
}

// Bool reads an optional boolean argument, false when absent.
func Bool(args map[string]interface{}, name string) bool {
	v, _ := args[name].(bool)
	return v
}

// RequiredID is IntID for arguments the query cannot run without.
func RequiredID(args map[string]interface{}, name string) (int, error) {
	id, ok, err := IntID(args, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}
	return id, nil
}
