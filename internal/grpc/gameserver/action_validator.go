package gameserver

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

var errStaleTurn = errors.New("request was made for another turn")

// ValidationResult contains the outcome of a validation check
type ValidationResult struct {
	Valid bool
	// Err is a gRPC status error for requests that cannot reach the engine
	Err error
	// Rejection is a game rule refusal, reported in the response body
	Rejection      error
	Player         core.Color
	CachedResponse *structpb.Struct
}

// ActionValidator resolves and checks every mutating request before it
// reaches the engine
type ActionValidator struct {
	gameManager *GameManager
	logger      zerolog.Logger
}

// NewActionValidator creates a new validator instance
func NewActionValidator(gm *GameManager, logger zerolog.Logger) *ActionValidator {
	return &ActionValidator{
		gameManager: gm,
		logger:      logger.With().Str("component", "ActionValidator").Logger(),
	}
}

// ValidateActionRequest performs complete validation for a mutating call
func (v *ActionValidator) ValidateActionRequest(method string, req gameRequest) (*ValidationResult, *gameInstance) {
	// 1. Validate game exists
	if req.GameID == "" {
		return &ValidationResult{Err: status.Error(codes.InvalidArgument, "game_id is required")}, nil
	}
	game, exists := v.gameManager.GetGame(req.GameID)
	if !exists {
		return &ValidationResult{Err: status.Errorf(codes.NotFound, "game %s not found", req.GameID)}, nil
	}

	// 2. Resolve the player. Acknowledge may be sent by anyone watching the hand-over.
	player, err := parseViewer(req.Player)
	if err != nil {
		return &ValidationResult{Err: status.Errorf(codes.InvalidArgument, "game %s: %v", req.GameID, err)}, game
	}
	if player != core.NoColor && !slices.Contains(game.players, player) {
		return &ValidationResult{Err: status.Errorf(codes.InvalidArgument, "game %s: %s is not playing", req.GameID, player)}, game
	}
	if player == core.NoColor && method != "Acknowledge" {
		return &ValidationResult{Err: status.Errorf(codes.InvalidArgument, "game %s: player is required for %s", req.GameID, method)}, game
	}

	// 3. Check idempotency
	if cached := game.idempotency.Check(player, method, req.IdempotencyKey); cached != nil {
		v.logger.Debug().
			Str("game_id", req.GameID).
			Str("method", method).
			Str("idempotency_key", req.IdempotencyKey).
			Msg("Returning cached response for idempotent request")
		return &ValidationResult{CachedResponse: cached, Player: player}, game
	}

	// 4. Game over
	if game.engine.IsGameOver() {
		return &ValidationResult{Rejection: core.ErrGameOver, Player: player}, game
	}

	// 5. Validate turn number
	if req.Turn != 0 {
		if current := game.engine.Turn(); req.Turn != current {
			return &ValidationResult{
				Rejection: fmt.Errorf("%w: expected %d, got %d", errStaleTurn, current, req.Turn),
				Player:    player,
			}, game
		}
	}

	return &ValidationResult{Valid: true, Player: player}, game
}
