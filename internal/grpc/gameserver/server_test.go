package gameserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	gameengine "github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
)

const bufSize = 1024 * 1024

func testDefaults() gameengine.GameConfig {
	return gameengine.GameConfig{
		Size:         12,
		Players:      []core.Color{core.White, core.Black},
		MovesPerTurn: 3,
		AutoEndTurn:  true,
	}
}

func newTestServer(t *testing.T, maxGames int) *Server {
	t.Helper()
	gm := newGameManager(ManagerConfig{MaxGames: maxGames, Logger: zerolog.Nop()})
	t.Cleanup(gm.Stop)
	return NewServer(gm, testDefaults(), zerolog.Nop())
}

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T, maxGames int) (*GameServiceClient, *Server) {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	srv := newTestServer(t, maxGames)
	s := NewGRPCServer(zerolog.Nop())
	RegisterGameServiceServer(s, srv)

	go func() {
		if err := s.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		s.Stop()
		lis.Close()
	})
	return NewGameServiceClient(conn), srv
}

type rpc func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func call(t *testing.T, method rpc, fields map[string]any) *structpb.Struct {
	t.Helper()
	resp, err := method(context.Background(), mustStruct(t, fields))
	require.NoError(t, err)
	return resp
}

func callResult(t *testing.T, method rpc, fields map[string]any) resultView {
	t.Helper()
	var out resultView
	require.NoError(t, fromStruct(call(t, method, fields), &out))
	return out
}

func cellArg(c core.Coordinate) map[string]any {
	return map[string]any{"row": c.Row, "col": c.Col}
}

func createGame(t *testing.T, client *GameServiceClient, fields map[string]any) string {
	t.Helper()
	if fields == nil {
		fields = map[string]any{}
	}
	if _, ok := fields["seed"]; !ok {
		fields["seed"] = 42
	}
	resp := call(t, client.CreateGame, fields)
	id := resp.GetFields()["game_id"].GetStringValue()
	require.NotEmpty(t, id)
	return id
}

func getState(t *testing.T, client *GameServiceClient, gameID, player string) stateView {
	t.Helper()
	resp := call(t, client.GetState, map[string]any{"game_id": gameID, "player": player})
	var out struct {
		State     stateView `json:"state"`
		BoardText string    `json:"board_text"`
	}
	require.NoError(t, fromStruct(resp, &out))
	return out.State
}

// findMove returns a legal move for one of player's pieces
func findMove(t *testing.T, client *GameServiceClient, gameID string, player core.Color) (core.Coordinate, core.Coordinate) {
	t.Helper()
	st := getState(t, client, gameID, player.String())
	for _, c := range st.Cells {
		if c.Piece == nil || c.Piece.Color != player {
			continue
		}
		from := core.NewCoordinate(c.Row, c.Col)
		resp := call(t, client.LegalMoves, map[string]any{
			"game_id": gameID, "player": player.String(), "cell": cellArg(from),
		})
		var out struct {
			Moves []core.Coordinate `json:"moves"`
		}
		require.NoError(t, fromStruct(resp, &out))
		if len(out.Moves) > 0 {
			return from, out.Moves[0]
		}
	}
	t.Fatalf("no legal move for %s", player)
	return core.Coordinate{}, core.Coordinate{}
}

func TestCreateGame(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	ctx := context.Background()

	resp := call(t, client.CreateGame, map[string]any{
		"size":    16,
		"players": []any{"white", "black", "red"},
		"seed":    7,
		"player":  "white",
	})
	var created struct {
		GameID  string       `json:"game_id"`
		Players []core.Color `json:"players"`
		State   stateView    `json:"state"`
	}
	require.NoError(t, fromStruct(resp, &created))
	assert.NotEmpty(t, created.GameID)
	assert.Equal(t, []core.Color{core.White, core.Black, core.Red}, created.Players)
	assert.Equal(t, 16, created.State.Size)
	assert.Equal(t, 1, created.State.Turn)
	assert.Equal(t, core.White, created.State.CurrentPlayer)
	assert.Equal(t, "AwaitingAction", created.State.Phase)
	assert.Len(t, created.State.Players, 3)

	// Defaults apply when nothing is given
	other := createGame(t, client, nil)
	assert.NotEqual(t, created.GameID, other)
	assert.Equal(t, 12, getState(t, client, other, "").Size)

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"unknown color", map[string]any{"players": []any{"white", "green"}}},
		{"ai not seated", map[string]any{"players": []any{"white", "black"}, "ai_players": []any{"blue"}}},
		{"duplicate color", map[string]any{"players": []any{"white", "white"}}},
		{"bad viewer", map[string]any{"player": "purple"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateGame(ctx, mustStruct(t, tt.fields))
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestCreateGame_AtCapacity(t *testing.T) {
	client, srv := setupTestServer(t, 1)

	createGame(t, client, nil)
	_, err := client.CreateGame(context.Background(), mustStruct(t, map[string]any{"seed": 1}))
	require.Error(t, err)
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	assert.Equal(t, 1, srv.GameManager().GetActiveGames())
}

func TestGetState_FogOfWar(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	observer := getState(t, client, gameID, "")
	assert.Len(t, observer.Cells, 12*12, "observers see every cell")

	white := getState(t, client, gameID, "white")
	assert.Less(t, len(white.Cells), 12*12)
	for _, c := range white.Cells {
		if c.Piece != nil {
			assert.True(t, c.Visible, "pieces only show on visible cells")
		}
		if !c.Visible {
			assert.NotEqual(t, core.RewardSite.String(), c.Terrain, "hidden reward sites are not revealed")
		}
	}

	// Counters are private to their seat
	for _, p := range white.Players {
		if p.Color == core.White {
			assert.Equal(t, 3, p.MovesRemaining)
			assert.Positive(t, p.LivePieces)
		} else {
			assert.Zero(t, p.MovesRemaining, "%s budget is hidden", p.Color)
			assert.Zero(t, p.LivePieces, "%s army size is hidden", p.Color)
		}
	}
	for _, p := range observer.Players {
		assert.Positive(t, p.LivePieces, "observers see every army")
	}

	_, err := client.GetState(context.Background(), mustStruct(t, map[string]any{"game_id": gameID, "player": "red"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "red is not seated")

	_, err = client.GetState(context.Background(), mustStruct(t, map[string]any{"game_id": "missing"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestApplyMove(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	from, to := findMove(t, client, gameID, core.White)
	res := callResult(t, client.ApplyMove, map[string]any{
		"game_id": gameID, "player": "white", "from": cellArg(from), "to": cellArg(to),
	})
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, "moved", res.Kind)
	assert.Empty(t, res.Code)
	for _, p := range res.State.Players {
		if p.Color == core.White {
			assert.Equal(t, 2, p.MovesRemaining)
		}
	}

	// Black may not act on white's turn; the refusal is in the body
	bFrom, bTo := findMove(t, client, gameID, core.Black)
	res = callResult(t, client.ApplyMove, map[string]any{
		"game_id": gameID, "player": "black", "from": cellArg(bFrom), "to": cellArg(bTo),
	})
	assert.False(t, res.Applied)
	assert.Equal(t, "rejected", res.Kind)
	assert.Equal(t, "not_your_turn", res.Code)

	// The moved piece cannot move again this turn
	res = callResult(t, client.ApplyMove, map[string]any{
		"game_id": gameID, "player": "white", "from": cellArg(to), "to": cellArg(from),
	})
	assert.False(t, res.Applied)

	_, err := client.ApplyMove(context.Background(), mustStruct(t, map[string]any{"game_id": gameID, "player": "white"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "from and to are required")
}

func TestSelectCell(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)
	from, to := findMove(t, client, gameID, core.White)

	res := callResult(t, client.SelectCell, map[string]any{"game_id": gameID, "player": "white", "cell": cellArg(from)})
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, "selected", res.Kind)
	require.NotNil(t, res.State.Selected)
	assert.Equal(t, from, *res.State.Selected)
	assert.Contains(t, res.State.Targets, to)

	// Black does not get to see white's selection
	assert.Nil(t, getState(t, client, gameID, "black").Selected)

	res = callResult(t, client.SelectCell, map[string]any{"game_id": gameID, "player": "white", "cell": cellArg(to)})
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, "moved", res.Kind)
	assert.Nil(t, res.State.Selected)
}

func TestEndTurnAndAcknowledge(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	res := callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "black"})
	assert.Equal(t, "not_your_turn", res.Code)

	res = callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "white"})
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, "turn_ended", res.Kind)
	assert.Equal(t, "TurnEnding", res.State.Phase)
	assert.Equal(t, core.Black, res.State.CurrentPlayer)
	assert.Equal(t, 2, res.State.Turn)

	// Nobody acts until the hand-over is acknowledged
	from, to := findMove(t, client, gameID, core.Black)
	res = callResult(t, client.ApplyMove, map[string]any{
		"game_id": gameID, "player": "black", "from": cellArg(from), "to": cellArg(to),
	})
	assert.Equal(t, "turn_ending", res.Code)

	res = callResult(t, client.Acknowledge, map[string]any{"game_id": gameID})
	require.True(t, res.Applied, res.Reason)
	assert.Equal(t, "acknowledged", res.Kind)
	assert.Equal(t, "AwaitingAction", res.State.Phase)

	res = callResult(t, client.Acknowledge, map[string]any{"game_id": gameID})
	assert.Equal(t, "not_turn_ending", res.Code)
}

func TestStaleTurnRejected(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	res := callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "white", "turn": 5})
	assert.False(t, res.Applied)
	assert.Equal(t, "stale_turn", res.Code)

	res = callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "white", "turn": 1})
	assert.True(t, res.Applied, res.Reason)
}

func TestLegalMoves(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	// A cell white cannot see is refused outright
	white := getState(t, client, gameID, "white")
	visible := make(map[core.Coordinate]bool)
	for _, c := range white.Cells {
		if c.Visible {
			visible[core.NewCoordinate(c.Row, c.Col)] = true
		}
	}
	var hidden *core.Coordinate
	for r := 0; r < 12 && hidden == nil; r++ {
		for c := 0; c < 12; c++ {
			if at := core.NewCoordinate(r, c); !visible[at] {
				hidden = &at
				break
			}
		}
	}
	require.NotNil(t, hidden)
	_, err := client.LegalMoves(context.Background(), mustStruct(t, map[string]any{
		"game_id": gameID, "player": "white", "cell": cellArg(*hidden),
	}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Observers are not limited by fog
	_, err = client.LegalMoves(context.Background(), mustStruct(t, map[string]any{
		"game_id": gameID, "cell": cellArg(*hidden),
	}))
	assert.NoError(t, err)

	_, err = client.LegalMoves(context.Background(), mustStruct(t, map[string]any{"game_id": gameID}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "cell is required")
}

func TestListAndDeleteGames(t *testing.T) {
	client, srv := setupTestServer(t, 10)
	first := createGame(t, client, nil)
	second := createGame(t, client, nil)

	resp := call(t, client.ListGames, map[string]any{})
	var listed struct {
		Games []gameSummary `json:"games"`
	}
	require.NoError(t, fromStruct(resp, &listed))
	require.Len(t, listed.Games, 2)
	assert.Equal(t, first, listed.Games[0].GameID)
	assert.Equal(t, second, listed.Games[1].GameID)
	assert.Equal(t, core.White, listed.Games[0].CurrentPlayer)

	resp = call(t, client.DeleteGame, map[string]any{"game_id": first})
	assert.True(t, resp.GetFields()["deleted"].GetBoolValue())
	assert.Equal(t, 1, srv.GameManager().GetActiveGames())

	_, err := client.DeleteGame(context.Background(), mustStruct(t, map[string]any{"game_id": first}))
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = client.EndTurn(context.Background(), mustStruct(t, map[string]any{"game_id": first, "player": "white"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestAIOpponentPlaysThroughServer(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, map[string]any{
		"ai_players":       []any{"black"},
		"auto_acknowledge": true,
	})

	res := callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "white"})
	require.True(t, res.Applied, res.Reason)

	// Black's whole turn ran inside the call
	st := getState(t, client, gameID, "white")
	if !st.GameOver {
		assert.Equal(t, core.White, st.CurrentPlayer)
		assert.Equal(t, 3, st.Turn)
	}
}

func TestStreamGame(t *testing.T) {
	client, _ := setupTestServer(t, 10)
	gameID := createGame(t, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream, err := client.StreamGame(ctx, mustStruct(t, map[string]any{"game_id": gameID}))
	require.NoError(t, err)

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "snapshot", first.GetFields()["type"].GetStringValue())
	assert.Equal(t, gameID, first.GetFields()["game_id"].GetStringValue())

	res := callResult(t, client.EndTurn, map[string]any{"game_id": gameID, "player": "white"})
	require.True(t, res.Applied)

	// The hand-over is announced before the state it produces
	var order []string
	seen := map[string]bool{}
	for !seen["turn.transition_requested"] || !seen["state.changed"] {
		update, err := stream.Recv()
		require.NoError(t, err)
		typ := update.GetFields()["type"].GetStringValue()
		order = append(order, typ)
		seen[typ] = true
	}
	assert.Equal(t, []string{"turn.transition_requested", "state.changed"}, order)
	assert.False(t, seen["state.transition"], "internal phase edges are not streamed")

	missing, err := client.StreamGame(ctx, mustStruct(t, map[string]any{"game_id": "missing"}))
	require.NoError(t, err)
	_, err = missing.Recv()
	assert.Equal(t, codes.NotFound, status.Code(err))
}
