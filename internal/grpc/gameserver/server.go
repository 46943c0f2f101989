package gameserver

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

// Server implements the GameService gRPC server
type Server struct {
	// Game manager for handling all game instances
	gameManager *GameManager

	// Action validator for checking mutating requests
	validator *ActionValidator

	// defaults seeds every new game before the request overrides apply
	defaultsMu sync.RWMutex
	defaults   gameengine.GameConfig
	logger     zerolog.Logger
}

var _ GameServiceServer = (*Server)(nil)

// NewServer creates a new game server
func NewServer(gm *GameManager, defaults gameengine.GameConfig, logger zerolog.Logger) *Server {
	s := &Server{
		gameManager: gm,
		validator:   NewActionValidator(gm, logger),
		logger:      logger.With().Str("component", "GameServer").Logger(),
	}
	s.SetDefaults(defaults)
	return s
}

// SetDefaults replaces the settings new games start from. Running games
// are not affected.
func (s *Server) SetDefaults(defaults gameengine.GameConfig) {
	// Each game gets its own rng and bus
	defaults.Rng = nil
	defaults.EventBus = nil
	s.defaultsMu.Lock()
	s.defaults = defaults
	s.defaultsMu.Unlock()
}

// GameManager returns the manager holding the server's games
func (s *Server) GameManager() *GameManager { return s.gameManager }

// CreateGame creates and starts a new game.
//
// Request: {size, players[], ai_players[], moves_per_turn, max_turns,
// auto_end_turn, auto_acknowledge, seed, player}. Every field is optional.
// Response: {game_id, players[], state}.
func (s *Server) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req createGameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	s.defaultsMu.RLock()
	defaults := s.defaults
	s.defaultsMu.RUnlock()

	cfg, err := req.applyTo(defaults)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid game settings: %v", err)
	}
	viewer, err := parseViewer(req.Player)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid viewer: %v", err)
	}

	game, err := s.gameManager.CreateGame(ctx, cfg)
	if err != nil {
		return nil, createErrorStatus(err)
	}

	s.logger.Info().
		Str("game_id", game.id).
		Int("players", len(game.players)).
		Msg("Creating new game")

	return s.respond(struct {
		GameID  string       `json:"game_id"`
		Players []core.Color `json:"players"`
		State   *stateView   `json:"state"`
	}{game.id, game.players, buildStateView(game.engine, viewer)})
}

// GetState returns the game as one player sees it.
//
// Request: {game_id, player}. An empty player asks for the observer view.
// Response: {state, board_text}.
func (s *Server) GetState(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	game, viewer, err := s.lookup(req)
	if err != nil {
		return nil, err
	}
	return s.respond(struct {
		State     *stateView `json:"state"`
		BoardText string     `json:"board_text"`
	}{buildStateView(game.engine, viewer), game.engine.BoardText(viewer)})
}

// SelectCell applies click semantics for player.
//
// Request: {game_id, player, cell:{row,col}, idempotency_key, turn}.
// Response: {applied, kind, reason, code, state}.
func (s *Server) SelectCell(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req cellRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.Cell == nil {
		return nil, status.Error(codes.InvalidArgument, "cell is required")
	}
	return s.mutate("SelectCell", req.gameRequest, func(g *gameInstance, player core.Color) gameengine.Result {
		return g.engine.SelectCellAs(player, *req.Cell)
	})
}

// ApplyMove moves one of player's pieces.
//
// Request: {game_id, player, from:{row,col}, to:{row,col}, idempotency_key, turn}.
// Response: {applied, kind, reason, code, state}.
func (s *Server) ApplyMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req moveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.From == nil || req.To == nil {
		return nil, status.Error(codes.InvalidArgument, "from and to are required")
	}
	return s.mutate("ApplyMove", req.gameRequest, func(g *gameInstance, player core.Color) gameengine.Result {
		return g.engine.ApplyMoveAs(player, *req.From, *req.To)
	})
}

// EndTurn ends player's turn.
//
// Request: {game_id, player, idempotency_key, turn}.
// Response: {applied, kind, reason, code, state}.
func (s *Server) EndTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.mutate("EndTurn", req, func(g *gameInstance, player core.Color) gameengine.Result {
		return g.engine.EndTurnAs(player)
	})
}

// Acknowledge resolves a pending turn hand-over.
//
// Request: {game_id, player, idempotency_key}. player is optional.
// Response: {applied, kind, reason, code, state}.
func (s *Server) Acknowledge(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.mutate("Acknowledge", req, func(g *gameInstance, _ core.Color) gameengine.Result {
		return g.engine.Acknowledge()
	})
}

// LegalMoves lists the destinations of a piece the player can see.
//
// Request: {game_id, player, cell:{row,col}}.
// Response: {from, moves[]}.
func (s *Server) LegalMoves(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req cellRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if req.Cell == nil {
		return nil, status.Error(codes.InvalidArgument, "cell is required")
	}
	game, viewer, err := s.lookup(req.gameRequest)
	if err != nil {
		return nil, err
	}
	if viewer != core.NoColor && !game.engine.IsVisible(viewer, *req.Cell) {
		return nil, status.Errorf(codes.FailedPrecondition, "%s: %v", req.Cell, core.ErrCellFogged)
	}
	moves := game.engine.LegalMoves(*req.Cell)
	if moves == nil {
		moves = []core.Coordinate{}
	}
	return s.respond(struct {
		From  core.Coordinate   `json:"from"`
		Moves []core.Coordinate `json:"moves"`
	}{*req.Cell, moves})
}

// ListGames summarizes every game on the server.
//
// Response: {games[]}.
func (s *Server) ListGames(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	games := s.gameManager.ListGames()
	sort.Slice(games, func(i, j int) bool { return games[i].createdAt.Before(games[j].createdAt) })

	out := make([]gameSummary, 0, len(games))
	for _, g := range games {
		gs := g.engine.Snapshot()
		out = append(out, gameSummary{
			GameID:        g.id,
			Turn:          gs.Turn,
			Phase:         g.engine.Phase().String(),
			CurrentPlayer: gs.CurrentColor(),
			Active:        gs.Active,
			GameOver:      g.engine.IsGameOver(),
			Winner:        gs.Winner,
		})
	}
	return s.respond(struct {
		Games []gameSummary `json:"games"`
	}{out})
}

// DeleteGame drops a game and closes its streams.
//
// Request: {game_id}. Response: {deleted}.
func (s *Server) DeleteGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	if !s.gameManager.RemoveGame(req.GameID) {
		return nil, status.Errorf(codes.NotFound, "game %s not found", req.GameID)
	}
	s.logger.Info().Str("game_id", req.GameID).Msg("Game deleted")
	return s.respond(struct {
		Deleted bool `json:"deleted"`
	}{true})
}

// StreamGame sends a state snapshot followed by every event the player may
// see, until the client goes away or the game is removed.
//
// Request: {game_id, player}. Updates: {type, game_id, timestamp, data}.
func (s *Server) StreamGame(in *structpb.Struct, stream grpc.ServerStream) error {
	var req gameRequest
	if err := fromStruct(in, &req); err != nil {
		return err
	}
	game, viewer, err := s.lookup(req)
	if err != nil {
		return err
	}

	client := game.streams.RegisterClient(viewer)
	if client == nil {
		return status.Errorf(codes.Unavailable, "game %s is shutting down", req.GameID)
	}
	defer game.streams.UnregisterClient(client.id)

	snapshot, err := toStruct(eventEnvelope{
		Type:      "snapshot",
		GameID:    game.id,
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Data:      buildStateView(game.engine, viewer),
	})
	if err != nil {
		return status.Errorf(codes.Internal, "encoding snapshot: %v", err)
	}
	if err := stream.SendMsg(snapshot); err != nil {
		return err
	}

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return status.FromContextError(ctx.Err()).Err()
		case update, ok := <-client.updateChan:
			if !ok {
				return nil
			}
			if err := stream.SendMsg(update); err != nil {
				s.logger.Debug().Err(err).Str("game_id", game.id).Msg("Stream send failed")
				return err
			}
		}
	}
}

// mutate runs a validated action against the engine and caches the response
// under the request's idempotency key
func (s *Server) mutate(method string, req gameRequest, act func(g *gameInstance, player core.Color) gameengine.Result) (*structpb.Struct, error) {
	result, game := s.validator.ValidateActionRequest(method, req)
	if result.Err != nil {
		return nil, result.Err
	}
	if result.CachedResponse != nil {
		return result.CachedResponse, nil
	}
	game.touch()

	var res gameengine.Result
	if result.Rejection != nil {
		res = gameengine.Result{Kind: gameengine.ResultRejected, Reason: result.Rejection}
	} else {
		res = act(game, result.Player)
	}

	if !res.Applied {
		s.logger.Debug().
			Str("game_id", game.id).
			Str("method", method).
			Str("player", result.Player.String()).
			Err(res.Reason).
			Msg("Action rejected")
	}

	view := resultView{
		Applied: res.Applied,
		Kind:    res.Kind.String(),
		Code:    errorCode(res.Reason),
		State:   buildStateView(game.engine, result.Player),
	}
	if res.Reason != nil {
		view.Reason = res.Reason.Error()
	}
	resp, err := s.respond(view)
	if err != nil {
		return nil, err
	}
	game.idempotency.Store(result.Player, method, req.IdempotencyKey, resp)
	return resp, nil
}

// lookup resolves the game and the optional viewer of a read request
func (s *Server) lookup(req gameRequest) (*gameInstance, core.Color, error) {
	if req.GameID == "" {
		return nil, core.NoColor, status.Error(codes.InvalidArgument, "game_id is required")
	}
	game, exists := s.gameManager.GetGame(req.GameID)
	if !exists {
		return nil, core.NoColor, status.Errorf(codes.NotFound, "game %s not found", req.GameID)
	}
	viewer, err := parseViewer(req.Player)
	if err != nil {
		return nil, core.NoColor, status.Errorf(codes.InvalidArgument, "game %s: %v", req.GameID, err)
	}
	if viewer != core.NoColor && !slices.Contains(game.players, viewer) {
		return nil, core.NoColor, status.Errorf(codes.InvalidArgument, "game %s: %s is not playing", req.GameID, viewer)
	}
	game.touch()
	return game, viewer, nil
}

func (s *Server) respond(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build response")
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	return out, nil
}
