// Package protocol defines the wire format exchanged with arena clients:
// event names, payload shapes and the envelope codecs.
package protocol

// Inbound event types (client -> server).
const (
	EventPlayerReady = "playerReady"
	EventUpdateMouse = "updateMouse"
)

// Outbound event types (server -> client).
const (
	EventInit        = "init"
	EventCountdown   = "countdown"
	EventGameStart   = "gameStart"
	EventTimerUpdate = "timerUpdate"
	EventGameOver    = "gameOver"
	EventStateUpdate = "stateUpdate"
	EventServerFull  = "serverFull"
)

// Point is a plain x/y pair.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Mouse is the payload of updateMouse.
type Mouse = Point

// FoodState describes the single food item.
type FoodState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// PlayerHead is one player's entry in a stateUpdate.
type PlayerHead struct {
	ID    string `json:"id" msgpack:"id"`
	Head  Point  `json:"head" msgpack:"head"`
	Score int    `json:"score" msgpack:"score"`
	Color string `json:"color" msgpack:"color"`
}

// StateUpdate is broadcast every simulation tick.
type StateUpdate struct {
	Players []PlayerHead `json:"players" msgpack:"players"`
	Food    FoodState    `json:"food" msgpack:"food"`
}

// SegmentState is one body segment in the full init snapshot.
type SegmentState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
	Color  string  `json:"color" msgpack:"color"`
	Smooth float64 `json:"smooth" msgpack:"smooth"`
}

// PlayerState is the full state of one player.
type PlayerState struct {
	ID        string         `json:"id" msgpack:"id"`
	SnakeBody []SegmentState `json:"snakeBody" msgpack:"snakeBody"`
	Score     int            `json:"score" msgpack:"score"`
	Mouse     Point          `json:"mouse" msgpack:"mouse"`
	Ready     bool           `json:"ready" msgpack:"ready"`
	Color     string         `json:"color" msgpack:"color"`
}

// ScoreEntry is one line of the gameOver result.
type ScoreEntry struct {
	ID    string `json:"id" msgpack:"id"`
	Score int    `json:"score" msgpack:"score"`
}

// GameState is the full snapshot sent once in init.
type GameState struct {
	Players      map[string]PlayerState `json:"players" msgpack:"players"`
	Order        []string               `json:"order" msgpack:"order"` // Player ids in join order
	Food         FoodState              `json:"food" msgpack:"food"`
	TimerRunning bool                   `json:"timerRunning" msgpack:"timerRunning"`
	Phase        string                 `json:"phase" msgpack:"phase"`
	LastResults  []ScoreEntry           `json:"lastResults,omitempty" msgpack:"lastResults,omitempty"`
}

// ServerFull is sent to a connection that could not be seated.
type ServerFull struct {
	Capacity int `json:"capacity" msgpack:"capacity"`
}
