package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GetJSON decodes the document stored under key into v.
// It returns ErrNotFound when the key is absent.
func GetJSON(p Provider, key string, v any) error {
	data, err := p.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return p.Set(key, data)
}

// GetTime returns the timestamp stored under key; ok is false when absent.
func GetTime(p Provider, key string) (t time.Time, ok bool, err error) {
	err = GetJSON(p, key, &t)
	if errors.Is(err, ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func SetTime(p Provider, key string, t time.Time) error {
	return SetJSON(p, key, t.UTC())
}

// GetBool returns the flag stored under key, or def when absent.
func GetBool(p Provider, key string, def bool) (bool, error) {
	var b bool
	err := GetJSON(p, key, &b)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return b, nil
}

func SetBool(p Provider, key string, b bool) error {
	return SetJSON(p, key, b)
}
