package gamedata

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNotFound is returned when a command id is not in the catalog.
	ErrNotFound = errors.New("command not found")
	// ErrNonContiguous is returned for catalogs whose ids are not 0..n-1.
	// Ids are sequence positions, and scoring indexes results by them.
	ErrNonContiguous = errors.New("non-contiguous command ids")
)

// CommandCatalog holds the loaded drill commands. It is read-only after
// construction; command ids double as the canonical sequence order.
type CommandCatalog struct {
	commands []CommandDef
	byID     map[int]*CommandDef
	byKey    map[string][]int
}

// NewCommandCatalog creates a catalog from loaded command definitions.
// Commands are ordered by id; ids must be unique and run from 0 without
// gaps.
func NewCommandCatalog(commands []CommandDef) (*CommandCatalog, error) {
	catalog := &CommandCatalog{
		commands: make([]CommandDef, len(commands)),
		byID:     make(map[int]*CommandDef, len(commands)),
		byKey:    make(map[string][]int),
	}
	copy(catalog.commands, commands)
	sort.SliceStable(catalog.commands, func(i, j int) bool {
		return catalog.commands[i].ID < catalog.commands[j].ID
	})

	for i := range catalog.commands {
		cmd := &catalog.commands[i]
		if _, dup := catalog.byID[cmd.ID]; dup {
			return nil, fmt.Errorf("duplicate command id %d", cmd.ID)
		}
		if cmd.ID != i {
			return nil, fmt.Errorf("command %d (%s): ids must run 0..%d without gaps: %w", cmd.ID, cmd.Name, len(commands)-1, ErrNonContiguous)
		}
		if cmd.Key == "" {
			return nil, fmt.Errorf("command %d (%s) has no key", cmd.ID, cmd.Name)
		}
		catalog.byID[cmd.ID] = cmd
	}

	// Key lists follow catalog order so the first candidate is deterministic.
	for _, cmd := range catalog.commands {
		key := NormalizeKey(cmd.Key)
		catalog.byKey[key] = append(catalog.byKey[key], cmd.ID)
	}
	return catalog, nil
}

// LoadCommandCatalog loads and creates a catalog from the embedded commands.json.
func LoadCommandCatalog() (*CommandCatalog, error) {
	commands, err := LoadCommands()
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, errors.New("no commands loaded from commands.json")
	}
	return NewCommandCatalog(commands)
}

// MustLoadCommandCatalog loads a catalog, panicking on error.
func MustLoadCommandCatalog() *CommandCatalog {
	catalog, err := LoadCommandCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Lookup returns the command with the given id.
func (c *CommandCatalog) Lookup(id int) (*CommandDef, error) {
	cmd, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	return cmd, nil
}

// LookupByKey returns the ids of every command triggered by key, in
// catalog order. The same key is shared by commands given in different
// states; the caller disambiguates.
func (c *CommandCatalog) LookupByKey(key string) []int {
	ids := c.byKey[NormalizeKey(key)]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// Sequence returns the commands in canonical order (ascending id).
func (c *CommandCatalog) Sequence() []*CommandDef {
	seq := make([]*CommandDef, 0, len(c.commands))
	for i := range c.commands {
		seq = append(seq, &c.commands[i])
	}
	return seq
}

// At returns the command at a position of the canonical sequence, or nil.
func (c *CommandCatalog) At(index int) *CommandDef {
	if index < 0 || index >= len(c.commands) {
		return nil
	}
	return &c.commands[index]
}

// Count returns the number of commands in the catalog.
func (c *CommandCatalog) Count() int {
	return len(c.commands)
}
