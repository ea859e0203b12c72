// Package multiplayer connects transport sessions to the arena simulation.
// A single Coordinator goroutine owns the World and the Round; transports
// talk to it only through messages and receive events on their handles.
package multiplayer

// SessionID uniquely identifies a connected session (websocket or SSH).
type SessionID string

// Role is what a session does in the arena.
type Role int

const (
	// RolePlayer steers a snake and counts toward capacity.
	RolePlayer Role = iota

	// RoleSpectator only receives broadcasts.
	RoleSpectator
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleSpectator:
		return "spectator"
	default:
		return "unknown"
	}
}

// Stats is a point-in-time summary of the coordinator, used by health checks.
type Stats struct {
	Players    int    `json:"players"`
	Spectators int    `json:"spectators"`
	Phase      string `json:"phase"`
	Tick       uint64 `json:"tick"`
}
