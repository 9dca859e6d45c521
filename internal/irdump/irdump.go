// Package irdump serializes SIR modules to msgpack snapshot files.
// Snapshots are a debugging artifact: code generation writes them out so
// the verifier and the textual dumper can be run on the result later
// without regenerating it.
package irdump

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/sir"
)

// Ext is the snapshot file extension.
const Ext = ".sirpack"

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// payload is the on-disk envelope around a module.
type payload struct {
	Schema uint16
	Module *sir.Module
}

// Marshal encodes a module into snapshot bytes.
func Marshal(m *sir.Module) ([]byte, error) {
	data, err := msgpack.Marshal(&payload{Schema: schemaVersion, Module: m})
	if err != nil {
		return nil, fmt.Errorf("irdump: encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes snapshot bytes, rejecting mismatched schemas.
func Unmarshal(data []byte) (*sir.Module, error) {
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("irdump: decode: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("irdump: snapshot schema %d, expected %d", p.Schema, schemaVersion)
	}
	if p.Module == nil {
		return nil, fmt.Errorf("irdump: snapshot has no module")
	}
	return p.Module, nil
}

// Write serializes a module to path. The file is written atomically via
// a temp file so a crash never leaves a truncated snapshot behind.
func Write(path string, m *sir.Module) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp) // no-op once renamed
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Read loads a snapshot from path.
func Read(path string) (*sir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
