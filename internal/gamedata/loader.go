package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// ErrTrailingData is returned when a drill data file holds more than one
// JSON document.
var ErrTrailingData = errors.New("trailing data after JSON document")

// Load decodes one of the embedded drill data files.
func Load[T any](name string) (T, error) {
	return LoadFS[T](dataFS, name)
}

// LoadFS decodes a single JSON document from fsys into T. Keys that T does
// not declare are rejected, so a misspelt flag such as "isHaltComand" fails
// the load.
func LoadFS[T any](fsys fs.FS, name string) (T, error) {
	var v T

	f, err := fsys.Open(name)
	if err != nil {
		return v, fmt.Errorf("open drill data %s: %w", name, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode drill data %s: %w", name, err)
	}
	if dec.More() {
		return v, fmt.Errorf("decode drill data %s: %w", name, ErrTrailingData)
	}
	return v, nil
}

// MustLoad is Load for files the trainer cannot run without.
func MustLoad[T any](name string) T {
	v, err := Load[T](name)
	if err != nil {
		panic(err)
	}
	return v
}
