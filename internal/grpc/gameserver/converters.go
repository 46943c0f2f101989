package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// toStruct converts a JSON-tagged Go value into a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("building response struct: %w", err)
	}
	return out, nil
}

// fromStruct decodes a protobuf Struct into a JSON-tagged Go value
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

// Request documents

type gameRequest struct {
	GameID         string `json:"game_id"`
	Player         string `json:"player"`
	IdempotencyKey string `json:"idempotency_key"`
	// Turn, when non-zero, must match the game's current turn
	Turn int `json:"turn"`
}

type cellRequest struct {
	gameRequest
	Cell *core.Coordinate `json:"cell"`
}

type moveRequest struct {
	gameRequest
	From *core.Coordinate `json:"from"`
	To   *core.Coordinate `json:"to"`
}

type createGameRequest struct {
	Size            int      `json:"size"`
	Players         []string `json:"players"`
	AIPlayers       []string `json:"ai_players"`
	MovesPerTurn    int      `json:"moves_per_turn"`
	MaxTurns        *int     `json:"max_turns"`
	AutoEndTurn     *bool    `json:"auto_end_turn"`
	AutoAcknowledge *bool    `json:"auto_acknowledge"`
	Seed            int64    `json:"seed"`
	// Player picks whose view the response state shows
	Player string `json:"player"`
}

// applyTo overlays the request on the server's default game settings
func (r createGameRequest) applyTo(base gameengine.GameConfig) (gameengine.GameConfig, error) {
	cfg := base
	if r.Size > 0 {
		cfg.Size = r.Size
	}
	if len(r.Players) > 0 {
		players, err := parseColors(r.Players)
		if err != nil {
			return cfg, err
		}
		cfg.Players = players
		// AI seats from the defaults may not exist in the new line-up
		cfg.AIPlayers = nil
	}
	if r.AIPlayers != nil {
		ais, err := parseColors(r.AIPlayers)
		if err != nil {
			return cfg, err
		}
		cfg.AIPlayers = ais
	}
	if r.MovesPerTurn > 0 {
		cfg.MovesPerTurn = r.MovesPerTurn
	}
	if r.MaxTurns != nil {
		cfg.MaxTurns = *r.MaxTurns
	}
	if r.AutoEndTurn != nil {
		cfg.AutoEndTurn = *r.AutoEndTurn
	}
	if r.AutoAcknowledge != nil {
		cfg.AutoAcknowledge = *r.AutoAcknowledge
	}
	if r.Seed != 0 {
		cfg.Rng = rand.New(rand.NewSource(r.Seed))
	}
	return cfg, nil
}

func parseColors(names []string) ([]core.Color, error) {
	out := make([]core.Color, 0, len(names))
	for _, n := range names {
		c, err := core.ParseColor(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// parseViewer reads an optional player name. Empty means an observer.
func parseViewer(name string) (core.Color, error) {
	if name == "" || name == "none" {
		return core.NoColor, nil
	}
	return core.ParseColor(name)
}

// Response documents

type pieceView struct {
	Type  core.PieceType `json:"type"`
	Color core.Color     `json:"color"`
}

type cellView struct {
	Row     int        `json:"row"`
	Col     int        `json:"col"`
	Visible bool       `json:"visible"`
	Terrain string     `json:"terrain,omitempty"`
	Piece   *pieceView `json:"piece,omitempty"`
}

type playerView struct {
	Color          core.Color `json:"color"`
	AI             bool       `json:"ai"`
	Active         bool       `json:"active"`
	MovesRemaining int        `json:"moves_remaining"`
	LivePieces     int        `json:"live_pieces"`
}

type stateView struct {
	GameID        string            `json:"game_id"`
	Viewer        core.Color        `json:"viewer"`
	Turn          int               `json:"turn"`
	Phase         string            `json:"phase"`
	CurrentPlayer core.Color        `json:"current_player"`
	GameOver      bool              `json:"game_over"`
	Winner        core.Color        `json:"winner"`
	Size          int               `json:"size"`
	Players       []playerView      `json:"players"`
	Cells         []cellView        `json:"cells"`
	Selected      *core.Coordinate  `json:"selected,omitempty"`
	Targets       []core.Coordinate `json:"targets,omitempty"`
}

type resultView struct {
	Applied bool       `json:"applied"`
	Kind    string     `json:"kind"`
	Reason  string     `json:"reason,omitempty"`
	Code    string     `json:"code,omitempty"`
	State   *stateView `json:"state"`
}

type gameSummary struct {
	GameID        string       `json:"game_id"`
	Turn          int          `json:"turn"`
	Phase         string       `json:"phase"`
	CurrentPlayer core.Color   `json:"current_player"`
	Active        []core.Color `json:"active"`
	GameOver      bool         `json:"game_over"`
	Winner        core.Color   `json:"winner"`
}

// eventEnvelope wraps each stream update. Data is an engine event, or the
// state view for the opening snapshot.
type eventEnvelope struct {
	Type      string `json:"type"`
	GameID    string `json:"game_id"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// buildStateView renders the game as viewer sees it. An observer (NoColor)
// sees the whole board and every player's counters.
func buildStateView(e *gameengine.Engine, viewer core.Color) *stateView {
	gs := e.Snapshot()
	b := gs.Board

	view := &stateView{
		GameID:        e.GameID(),
		Viewer:        viewer,
		Turn:          gs.Turn,
		Phase:         e.Phase().String(),
		CurrentPlayer: gs.CurrentColor(),
		GameOver:      e.IsGameOver(),
		Winner:        gs.Winner,
		Size:          b.Size,
		Players:       make([]playerView, 0, len(gs.Players)),
	}
	for _, p := range gs.Players {
		pv := playerView{Color: p.Color, AI: p.AI, Active: p.Active}
		// Opponents' budgets and piece counts stay hidden from seated players
		if viewer == core.NoColor || viewer == p.Color {
			pv.MovesRemaining = p.MovesRemaining
			pv.LivePieces = p.LivePieces
		}
		view.Players = append(view.Players, pv)
	}

	me := gs.Player(viewer)
	for i := range b.Cells {
		row, col := b.RowCol(i)
		at := core.NewCoordinate(row, col)
		visible, explored := true, true
		if me != nil {
			k := b.KeyOf(at)
			visible, explored = me.Visible.Has(k), me.Explored.Has(k)
		}
		if !explored {
			continue
		}
		cell := &b.Cells[i]
		cv := cellView{Row: row, Col: col, Visible: visible}
		switch {
		case cell.IsReward() && !visible:
			// may have been claimed since it was last seen
		case cell.IsTerrain():
			cv.Terrain = cell.Terrain.Kind.String()
		case cell.HasPiece() && visible:
			cv.Piece = &pieceView{Type: cell.Piece.Type, Color: cell.Piece.Color}
		}
		view.Cells = append(view.Cells, cv)
	}

	if gs.Selected != nil && (viewer == core.NoColor || viewer == gs.CurrentColor()) {
		sel := *gs.Selected
		view.Selected = &sel
		view.Targets = gs.Targets
	}
	return view
}

// errorCode gives clients a stable machine-readable rejection reason
func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrInvalidCoordinates):
		return "invalid_coordinates"
	case errors.Is(err, core.ErrNoPiece):
		return "no_piece"
	case errors.Is(err, core.ErrNotOwned):
		return "not_owned"
	case errors.Is(err, core.ErrMoveToSelf):
		return "move_to_self"
	case errors.Is(err, core.ErrAlreadyMoved):
		return "already_moved"
	case errors.Is(err, core.ErrNoMovesRemaining):
		return "no_moves_remaining"
	case errors.Is(err, core.ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, core.ErrCellFogged):
		return "cell_fogged"
	case errors.Is(err, core.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, core.ErrTurnEnding):
		return "turn_ending"
	case errors.Is(err, core.ErrNotTurnEnding):
		return "not_turn_ending"
	case errors.Is(err, core.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, core.ErrGameOver):
		return "game_over"
	case errors.Is(err, core.ErrInvalidPlayer):
		return "invalid_player"
	case errors.Is(err, errStaleTurn):
		return "stale_turn"
	default:
		return "unknown"
	}
}

// createErrorStatus maps game construction failures to gRPC status codes
func createErrorStatus(err error) error {
	switch {
	case errors.Is(err, errServerAtCapacity):
		return status.Errorf(codes.ResourceExhausted, "failed to create game: %v", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		// Everything else comes from validating the requested settings
		return status.Errorf(codes.InvalidArgument, "failed to create game: %v", err)
	}
}
