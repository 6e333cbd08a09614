// Package components defines the agent data model stored in the ECS world.
package components

// ID identifies an agent for its whole life. Zero means "no agent".
type ID uint64

// NoID is the zero identifier.
const NoID ID = 0

// AgentType tags the three kinds of organism.
type AgentType uint8

const (
	TypeResource AgentType = iota
	TypeMinion
	TypeSpore
)

func (t AgentType) String() string {
	switch t {
	case TypeResource:
		return "resource"
	case TypeMinion:
		return "minion"
	case TypeSpore:
		return "spore"
	}
	return "unknown"
}

// AgentTypes lists every agent type in update order.
var AgentTypes = []AgentType{TypeResource, TypeMinion, TypeSpore}

// Flags are segment capabilities.
type Flags uint8

const (
	FlagMouth   Flags = 1 << iota // consumes resources on contact
	FlagTracker                   // anchors camera tracking
	FlagHead                      // reference segment of a body
	FlagTail                      // last segment of a body
)

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

// Tag components select archetypes in ECS filters.
type (
	Resource struct{}
	Minion   struct{}
	Spore    struct{}
)
