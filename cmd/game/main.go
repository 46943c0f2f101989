package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/FogOfWarChess/internal/config"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/states"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Map and AI seed (0 uses the config value, then the clock)")
	size := flag.Int("size", 0, "Board edge length (0 uses config)")
	players := flag.String("players", "", "Comma separated turn order, e.g. white,black,red")
	random := flag.String("random", "", "Colors played by the random mover instead of the heuristic")
	maxTurns := flag.Int("max-turns", -1, "Turn cap (-1 uses config, 0 disables)")
	viewer := flag.String("viewer", "none", "Print the board through this player's fog")
	delay := flag.Duration("delay", 0, "Pause between turns")
	quiet := flag.Bool("quiet", false, "Only print the final board")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()
	logger.Init(cfg.Logging)

	gc := game.DefaultGameConfig()
	if *size > 0 {
		gc.Size = *size
		gc.Map.Size = *size
	}
	if *players != "" {
		colors, err := parseColors(*players)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -players")
		}
		gc.Players = colors
	}
	randomColors, err := parseColors(*random)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -random")
	}
	if *maxTurns >= 0 {
		gc.MaxTurns = *maxTurns
	}
	view := core.NoColor
	if *viewer != "none" {
		if view, err = core.ParseColor(*viewer); err != nil {
			log.Fatal().Err(err).Msg("Invalid -viewer")
		}
	}

	// Every color the random mover does not play is driven by the heuristic
	gc.AIPlayers = nil
	for _, c := range gc.Players {
		if !contains(randomColors, c) {
			gc.AIPlayers = append(gc.AIPlayers, c)
		}
	}
	// Hand-overs are acknowledged here so the board can be printed between turns
	gc.AutoAcknowledge = false
	gc.AutoEndTurn = true
	gc.Map.Colors = gc.Players

	if *seed == 0 {
		*seed = cfg.Development.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	gc.Rng = rng
	gc.Logger = log.Logger
	gc.EventBus = events.NewEventBusWithLogger(log.Logger)
	gc.EventBus.Subscribe(subscribers.NewLoggerSubscriber("cli_logger", log.Logger, zerolog.DebugLevel))

	fmt.Printf("Game seed: %d\n", *seed)
	g, err := game.NewEngine(context.Background(), gc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game")
	}

	printed := -1
	for !g.IsGameOver() {
		if !*quiet && g.Turn() != printed {
			printed = g.Turn()
			fmt.Printf("\nTurn %d, %s to move:\n%s\n", g.Turn(), g.CurrentPlayer(), g.Board(view))
		}

		if g.Phase() == states.PhaseTurnEnding {
			if res := g.Acknowledge(); !res.Applied {
				log.Fatal().Err(res.Reason).Msg("Acknowledge rejected")
			}
			if *delay > 0 {
				time.Sleep(*delay)
			}
			continue
		}

		// Only random-mover turns reach this point: heuristic turns run
		// inside Acknowledge
		move, ok := game.RandomMove(g, rng)
		if !ok {
			if res := g.EndTurn(); !res.Applied {
				log.Fatal().Err(res.Reason).Msg("End turn rejected")
			}
			continue
		}
		if res := g.ApplyMove(move.From, move.To); !res.Applied {
			log.Warn().Err(res.Reason).Msg("Random move rejected, ending turn")
			g.EndTurn()
		}
	}

	fmt.Printf("\nFinal board after %d turns:\n%s\n", g.Turn(), g.Board(core.NoColor))
	if w := g.Winner(); w != core.NoColor {
		fmt.Printf("Winner: %s\n", w)
	} else {
		fmt.Println("No winner")
	}
	for _, st := range g.Stats() {
		fmt.Printf("  %-6s active=%-5v pieces=%-2d captures=%-2d explored=%d\n",
			st.Color, st.Active, st.LivePieces, st.Captures, st.ExploredCells)
	}
}

func parseColors(s string) ([]core.Color, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []core.Color
	for _, name := range strings.Split(s, ",") {
		c, err := core.ParseColor(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func contains(colors []core.Color, c core.Color) bool {
	for _, x := range colors {
		if x == c {
			return true
		}
	}
	return false
}
