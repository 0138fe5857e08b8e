package cache

import "fmt"

// Policy selects the replacement discipline a CacheLayer uses once a
// set is full and a victim must be chosen.
type Policy int

const (
	// LRU evicts the block with the smallest last-use timestamp.
	LRU Policy = iota
	// FIFO evicts the block installed earliest, independent of hits.
	FIFO
	// LFU evicts the block with the smallest access count.
	LFU
	// Random evicts a uniformly chosen block.
	Random
)

// String renders the policy the way it appears in stats output and
// config files.
func (p Policy) String() string {
	switch p {
	case LRU:
		return "LRU"
	case FIFO:
		return "FIFO"
	case LFU:
		return "LFU"
	case Random:
		return "RANDOM"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name as it would appear in a config file.
// Unknown names are rejected with an error. New does not check the
// policy, so a Policy value outside the four constants that reaches a
// CacheLayer directly picks block 0 as the victim once a set is full.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "LRU", "":
		return LRU, nil
	case "FIFO":
		return FIFO, nil
	case "LFU":
		return LFU, nil
	case "RANDOM":
		return Random, nil
	default:
		return 0, fmt.Errorf("cache: unknown replacement policy %q", name)
	}
}

// MarshalJSON renders the policy as its name for config files.
func (p Policy) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses the policy from its name in config files.
func (p *Policy) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	parsed, err := ParsePolicy(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
