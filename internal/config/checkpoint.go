package config

import (
	"encoding/json"
	"os"
	"sort"
)

// Checkpoint is the persisted mapping from contract logical name to deployed
// address. The deploy orchestrator writes it after every successful deployment
// so a failed run can resume where it left off; the contract gateway reads it
// as its address book.
type Checkpoint struct {
	path      string
	Addresses map[string]string
}

// LoadCheckpoint reads a checkpoint file. A missing file yields an empty
// checkpoint, not an error.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	cp := &Checkpoint{path: path, Addresses: make(map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cp, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &cp.Addresses); err != nil {
		return nil, err
	}
	return cp, nil
}

// Address returns the deployed address for a logical name, or "" if unknown.
func (cp *Checkpoint) Address(name string) string {
	return cp.Addresses[name]
}

// Put records a deployed address and persists the checkpoint immediately.
func (cp *Checkpoint) Put(name, address string) error {
	cp.Addresses[name] = address
	return cp.Save()
}

// Save writes the checkpoint to disk.
func (cp *Checkpoint) Save() error {
	data, err := json.MarshalIndent(cp.Addresses, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cp.path, data, 0o600)
}

// Names returns the recorded logical names in sorted order.
func (cp *Checkpoint) Names() []string {
	out := make([]string, 0, len(cp.Addresses))
	for name := range cp.Addresses {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
