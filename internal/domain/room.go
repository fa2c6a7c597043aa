package domain

// RoomStatus represents the lifecycle stage of a room.
type RoomStatus string

const (
	// RoomWaiting is the pre-game state where players can join and ready up.
	RoomWaiting RoomStatus = "waiting"
	// RoomOngoing is the active game state where dice are rolled.
	RoomOngoing RoomStatus = "ongoing"
	// RoomFinished is the terminal state after a game concludes.
	RoomFinished RoomStatus = "finished"
)

// Player holds state for a participant in a room.
type Player struct {
	UID                string `json:"uid"`
	DisplayName        string `json:"display_name"`
	Avatar             string `json:"avatar,omitempty"`
	Ready              bool   `json:"ready"`
	SkipCount          int    `json:"skip_count"`
	Forfeited          bool   `json:"forfeited"`
	WalletLockedAmount int64  `json:"wallet_locked_amount"`
}

// DiceRoll is one audited dice draw.
type DiceRoll struct {
	PlayerID  string `json:"player_id"`
	Value     int    `json:"value"`
	Timestamp int64  `json:"timestamp"`
	TurnIndex int    `json:"turn_index"`
}

// MoveAction identifies entries in a room's moves history.
type MoveAction string

const (
	MoveJoin     MoveAction = "join"
	MoveLeave    MoveAction = "leave"
	MoveAutoSkip MoveAction = "auto-skip"
	MoveForfeit  MoveAction = "forfeit"
)

// Move is one skip/forfeit/join event in the room's append-only history.
type Move struct {
	PlayerID  string     `json:"player_id"`
	Action    MoveAction `json:"action"`
	Reason    string     `json:"reason,omitempty"`
	SkipCount int        `json:"skip_count,omitempty"`
	Timestamp int64      `json:"timestamp"`
	TurnIndex int        `json:"turn_index"`
}

// Room holds authoritative state for a single match.
type Room struct {
	RoomID     string             `json:"room_id"`
	BetAmount  int64              `json:"bet_amount"`
	MaxPlayers int                `json:"max_players"`
	Status     RoomStatus         `json:"status"`
	Players    map[string]*Player `json:"players"`

	// TurnOrder is fixed once the game starts and never mutates afterwards.
	TurnOrder        []string `json:"turn_order"`
	CurrentTurnIndex int      `json:"current_turn_index"`

	Board        *Board     `json:"board_state"`
	DiceHistory  []DiceRoll `json:"dice_history"`
	MovesHistory []Move     `json:"moves_history"`

	PotAmount int64 `json:"pot_amount"`
	CreatedAt int64 `json:"created_at"`
	StartedAt int64 `json:"started_at,omitempty"`
	EndedAt   int64 `json:"ended_at,omitempty"`
}

// CurrentPlayerID returns the uid whose turn it is, or "" before the game starts.
func (r *Room) CurrentPlayerID() string {
	if len(r.TurnOrder) == 0 || r.CurrentTurnIndex < 0 || r.CurrentTurnIndex >= len(r.TurnOrder) {
		return ""
	}
	return r.TurnOrder[r.CurrentTurnIndex]
}

// ActivePlayerIDs returns non-forfeited uids in turn order. Before the turn
// order exists it falls back to the player map (order unspecified).
func (r *Room) ActivePlayerIDs() []string {
	var out []string
	if len(r.TurnOrder) > 0 {
		for _, uid := range r.TurnOrder {
			if p, ok := r.Players[uid]; ok && !p.Forfeited {
				out = append(out, uid)
			}
		}
		return out
	}
	for uid, p := range r.Players {
		if !p.Forfeited {
			out = append(out, uid)
		}
	}
	return out
}

// ActiveCount returns the number of non-forfeited players.
func (r *Room) ActiveCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.Forfeited {
			n++
		}
	}
	return n
}

// NextTurnIndex returns the index of the next non-forfeited player after from,
// wrapping around. The scan is bounded by the turn order length so it
// terminates even when every other player is forfeited.
func (r *Room) NextTurnIndex(from int) int {
	if len(r.TurnOrder) == 0 {
		return 0
	}
	next := (from + 1) % len(r.TurnOrder)
	for attempts := 0; attempts < len(r.TurnOrder); attempts++ {
		p, ok := r.Players[r.TurnOrder[next]]
		if ok && !p.Forfeited {
			return next
		}
		next = (next + 1) % len(r.TurnOrder)
	}
	return next
}

// IsFull reports whether the room reached its player capacity.
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// AllReady reports whether every current player has readied up.
func (r *Room) AllReady() bool {
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return len(r.Players) > 0
}
