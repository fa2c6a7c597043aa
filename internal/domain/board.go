package domain

// TokensPerPlayer is the number of tokens each player controls on the board.
const TokensPerPlayer = 4

// TokenPositionHome is the starting position for every token.
const TokenPositionHome = "home"

// Token is a single player token on the board.
type Token struct {
	ID       int    `json:"id"`
	Position string `json:"position"`
}

// BoardPlayer holds the per-player token layout.
type BoardPlayer struct {
	Tokens []Token `json:"tokens"`
}

// Board is the shared board layout. Token movement rules are not implemented
// yet; every token stays at home and the winner is decided by the settlement
// policy instead of board position.
type Board struct {
	Players map[string]BoardPlayer `json:"players"`
}

// NewBoard creates the initial board with all tokens at home.
func NewBoard(playerIDs []string) *Board {
	b := &Board{Players: make(map[string]BoardPlayer, len(playerIDs))}
	for _, uid := range playerIDs {
		tokens := make([]Token, TokensPerPlayer)
		for i := range tokens {
			tokens[i] = Token{ID: i, Position: TokenPositionHome}
		}
		b.Players[uid] = BoardPlayer{Tokens: tokens}
	}
	return b
}
