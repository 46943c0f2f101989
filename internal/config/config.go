package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/common"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/ai"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/core"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/mapgen"
	"github.com/mitchelldurbincs/FogOfWarChess/internal/game/rules"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game        GameConfig        `mapstructure:"game"`
	AI          AIConfig          `mapstructure:"ai"`
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Development DevelopmentConfig `mapstructure:"development"`
}

// GameConfig holds game mechanics configuration
type GameConfig struct {
	GridSize          int           `mapstructure:"grid_size"`
	Players           []string      `mapstructure:"players"`
	AIPlayers         []string      `mapstructure:"ai_players"`
	MovesPerTurn      int           `mapstructure:"moves_per_turn"`
	MinPlayerDistance int           `mapstructure:"min_player_distance"`
	AutoAcknowledge   bool          `mapstructure:"auto_acknowledge"`
	AutoEndTurn       bool          `mapstructure:"auto_end_turn"`
	Terrain           TerrainConfig `mapstructure:"terrain"`
	Rewards           RewardConfig  `mapstructure:"rewards"`
	Vision            VisionConfig  `mapstructure:"vision"`
}

// TerrainConfig holds the per-cell terrain probability bands
type TerrainConfig struct {
	Water    float64 `mapstructure:"water"`
	Forest   float64 `mapstructure:"forest"`
	Mountain float64 `mapstructure:"mountain"`
}

// RewardConfig holds reward site placement settings
type RewardConfig struct {
	RegionSize  int `mapstructure:"region_size"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// VisionConfig holds vision radii per piece type
type VisionConfig struct {
	Pawn    int `mapstructure:"pawn"`
	Rook    int `mapstructure:"rook"`
	Knight  int `mapstructure:"knight"`
	Default int `mapstructure:"default"`
}

// AIConfig holds the computer opponent's scoring weights
type AIConfig struct {
	CaptureMultiplier float64 `mapstructure:"capture_multiplier"`
	KingBonus         float64 `mapstructure:"king_bonus"`
	RewardBonus       float64 `mapstructure:"reward_bonus"`
	CentralityWeight  float64 `mapstructure:"centrality_weight"`
	Jitter            float64 `mapstructure:"jitter"`
	MoveDelayMs       int     `mapstructure:"move_delay_ms"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	GRPC GRPCServerConfig `mapstructure:"grpc"`
	WS   WSServerConfig   `mapstructure:"ws"`
}

// GRPCServerConfig holds gRPC server configuration
type GRPCServerConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	MaxGames              int    `mapstructure:"max_games"`
	EnableReflection      bool   `mapstructure:"enable_reflection"`
	GracefulShutdownDelay int    `mapstructure:"graceful_shutdown_delay"`
	IdleGameTimeout       int    `mapstructure:"idle_game_timeout"`
}

// WSServerConfig holds the websocket observer feed settings
type WSServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DevelopmentConfig holds development/debug settings
type DevelopmentConfig struct {
	ShowAllCells bool  `mapstructure:"show_all_cells"`
	Seed         int64 `mapstructure:"seed"`
	MaxTurns     int   `mapstructure:"max_turns"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.grid_size", 16)
	v.SetDefault("game.players", []string{"white", "black"})
	v.SetDefault("game.ai_players", []string{"black"})
	v.SetDefault("game.moves_per_turn", 3)
	v.SetDefault("game.min_player_distance", 6)
	v.SetDefault("game.auto_acknowledge", false)
	v.SetDefault("game.auto_end_turn", true)

	v.SetDefault("game.terrain.water", 0.035)
	v.SetDefault("game.terrain.forest", 0.0525)
	v.SetDefault("game.terrain.mountain", 0.028)

	v.SetDefault("game.rewards.region_size", 4)
	v.SetDefault("game.rewards.max_attempts", 100)

	v.SetDefault("game.vision.pawn", 1)
	v.SetDefault("game.vision.rook", 3)
	v.SetDefault("game.vision.knight", 3)
	v.SetDefault("game.vision.default", 2)

	// AI defaults
	v.SetDefault("ai.capture_multiplier", 2.0)
	v.SetDefault("ai.king_bonus", 1000.0)
	v.SetDefault("ai.reward_bonus", 4.0)
	v.SetDefault("ai.centrality_weight", 0.1)
	v.SetDefault("ai.jitter", 0.05)
	v.SetDefault("ai.move_delay_ms", 0)

	// Server defaults
	v.SetDefault("server.grpc.host", "0.0.0.0")
	v.SetDefault("server.grpc.port", 50051)
	v.SetDefault("server.grpc.max_games", 100)
	v.SetDefault("server.grpc.enable_reflection", true)
	v.SetDefault("server.grpc.graceful_shutdown_delay", 5)
	v.SetDefault("server.grpc.idle_game_timeout", 1800)

	v.SetDefault("server.ws.host", "0.0.0.0")
	v.SetDefault("server.ws.port", 8080)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Development defaults
	v.SetDefault("development.show_all_cells", false)
	v.SetDefault("development.seed", 0)
	v.SetDefault("development.max_turns", 500)
}

// Init initializes the configuration system
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/fog-of-war-chess")
	}

	// FOW_GAME_GRID_SIZE overrides game.grid_size
	v.SetEnvPrefix("FOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults; for the search
		// path only ConfigFileNotFoundError is tolerated.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig loads environment-specific config overlay
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config: %w", err)
	}

	return nil
}

// Set sets a configuration value (useful for testing)
func Set(key string, value interface{}) {
	v.Set(key, value)
	// Re-unmarshal to update struct
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// GetFloat64 gets a float64 value from config
func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of config file.
// Only values read after the reload see the change; running games keep
// the settings they were created with.
func WatchConfig(onChange func()) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		_ = v.Unmarshal(cfg)
		if onChange != nil {
			onChange()
		}
	})
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.GridSize < 4 {
		return fmt.Errorf("game.grid_size must be at least 4")
	}
	if len(c.Game.Players) < 1 || len(c.Game.Players) > core.MaxPlayers {
		return fmt.Errorf("game.players must list between 1 and %d colors", core.MaxPlayers)
	}
	seen := make(map[core.Color]bool)
	for _, name := range c.Game.Players {
		color, err := core.ParseColor(name)
		if err != nil {
			return fmt.Errorf("game.players: %w", err)
		}
		if seen[color] {
			return fmt.Errorf("game.players: duplicate color %s", color)
		}
		seen[color] = true
	}
	for _, name := range c.Game.AIPlayers {
		color, err := core.ParseColor(name)
		if err != nil {
			return fmt.Errorf("game.ai_players: %w", err)
		}
		if !seen[color] {
			return fmt.Errorf("game.ai_players: %s is not a player", color)
		}
	}
	if c.Game.MovesPerTurn < 1 {
		return fmt.Errorf("game.moves_per_turn must be positive")
	}
	if c.Game.MinPlayerDistance < 0 {
		return fmt.Errorf("game.min_player_distance must be non-negative")
	}
	t := c.Game.Terrain
	if t.Water < 0 || t.Forest < 0 || t.Mountain < 0 || common.Sum([]float64{t.Water, t.Forest, t.Mountain}) > 1 {
		return fmt.Errorf("game.terrain densities must be non-negative and sum to at most 1")
	}
	if c.Game.Rewards.RegionSize < 1 {
		return fmt.Errorf("game.rewards.region_size must be positive")
	}
	if c.Game.Rewards.MaxAttempts < 0 {
		return fmt.Errorf("game.rewards.max_attempts must be non-negative")
	}
	vis := c.Game.Vision
	if vis.Pawn < 0 || vis.Rook < 0 || vis.Knight < 0 || vis.Default < 0 {
		return fmt.Errorf("game.vision radii must be non-negative")
	}

	if c.AI.Jitter < 0 {
		return fmt.Errorf("ai.jitter must be non-negative")
	}
	if c.AI.MoveDelayMs < 0 {
		return fmt.Errorf("ai.move_delay_ms must be non-negative")
	}

	if c.Server.GRPC.Port <= 0 || c.Server.GRPC.Port > 65535 {
		return fmt.Errorf("server.grpc.port must be between 1 and 65535")
	}
	if c.Server.GRPC.MaxGames <= 0 {
		return fmt.Errorf("server.grpc.max_games must be positive")
	}
	if c.Server.GRPC.GracefulShutdownDelay < 0 {
		return fmt.Errorf("server.grpc.graceful_shutdown_delay must be non-negative")
	}
	if c.Server.GRPC.IdleGameTimeout < 0 {
		return fmt.Errorf("server.grpc.idle_game_timeout must be non-negative")
	}
	if c.Server.WS.Port < 0 || c.Server.WS.Port > 65535 {
		return fmt.Errorf("server.ws.port must be between 0 and 65535")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}

// PlayerColors returns the configured turn order
func (g GameConfig) PlayerColors() []core.Color {
	return parseColors(g.Players)
}

// AIColors returns the colors driven by the computer
func (g GameConfig) AIColors() []core.Color {
	return parseColors(g.AIPlayers)
}

func parseColors(names []string) []core.Color {
	out := make([]core.Color, 0, len(names))
	for _, name := range names {
		if color, err := core.ParseColor(name); err == nil {
			out = append(out, color)
		}
	}
	return out
}

// MapConfig converts the game section into map generation settings
func (g GameConfig) MapConfig() mapgen.MapConfig {
	mc := mapgen.DefaultMapConfig(g.GridSize, g.PlayerColors())
	mc.WaterDensity = g.Terrain.Water
	mc.ForestDensity = g.Terrain.Forest
	mc.MountainDensity = g.Terrain.Mountain
	mc.RewardRegionSize = g.Rewards.RegionSize
	mc.RewardMaxAttempts = g.Rewards.MaxAttempts
	mc.MinPlayerDistance = g.MinPlayerDistance
	return mc
}

// VisionRanges converts the vision section into a vision table
func (g GameConfig) VisionRanges() rules.VisionRanges {
	return rules.VisionRanges{
		ByType: map[core.PieceType]int{
			core.Pawn:   g.Vision.Pawn,
			core.Rook:   g.Vision.Rook,
			core.Knight: g.Vision.Knight,
		},
		Default: g.Vision.Default,
	}
}

// Weights converts the AI section into heuristic weights
func (a AIConfig) Weights() ai.Weights {
	w := ai.DefaultWeights()
	w.CaptureMultiplier = a.CaptureMultiplier
	w.KingBonus = a.KingBonus
	w.RewardBonus = a.RewardBonus
	w.CentralityWeight = a.CentralityWeight
	w.Jitter = a.Jitter
	return w
}

// MoveDelay returns the pacing delay between AI moves
func (a AIConfig) MoveDelay() time.Duration {
	return time.Duration(a.MoveDelayMs) * time.Millisecond
}
