package domain

import "time"

// Config is the resolved runtime configuration.
type Config struct {
	Engine    EngineConfig
	Knowledge KnowledgeConfig
	Enricher  EnricherConfig
	Cache     CacheConfig
	Store     StoreConfig
	Telemetry TelemetryConfig
}

// EngineConfig configures the external reasoning engine client and stage budgets.
type EngineConfig struct {
	Endpoint      string
	APIKeyEnv     string
	Budget        time.Duration
	TriageTimeout time.Duration
	DeepTimeout   time.Duration
	// TriageShare bounds the fraction of the remaining budget triage may use.
	TriageShare float64
	RateLimit   float64
	Burst       int
	MaxRetries  int
}

// KnowledgeConfig configures the reference snippet source.
type KnowledgeConfig struct {
	Path    string
	Timeout time.Duration
}

// EnricherConfig holds the heuristics injected into the finding enricher.
type EnricherConfig struct {
	PrivilegedPatterns []string
	MaxDependents      int
	MaxPathDepth       int
}

// CacheLevelConfig sizes a single logical cache.
type CacheLevelConfig struct {
	Capacity int
	TTL      time.Duration
}

// CacheConfig sizes every logical cache owned by the process.
type CacheConfig struct {
	Parse         CacheLevelConfig
	Spec          CacheLevelConfig
	Findings      CacheLevelConfig
	Graph         CacheLevelConfig
	SweepInterval time.Duration
}

// Result store backends.
const (
	StoreBackendNone  = "none"
	StoreBackendFile  = "file"
	StoreBackendRedis = "redis"
)

// StoreConfig selects the durable result tier.
type StoreConfig struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisDB   int
	KeyPrefix string
	TTL       time.Duration
}

// TelemetryConfig toggles span recording.
type TelemetryConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration used when no config file overrides it.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			Endpoint:      "http://127.0.0.1:8088",
			APIKeyEnv:     "SPECSCOPE_ENGINE_KEY",
			Budget:        90 * time.Second,
			TriageTimeout: 20 * time.Second,
			DeepTimeout:   60 * time.Second,
			TriageShare:   0.3,
			RateLimit:     2,
			Burst:         2,
			MaxRetries:    2,
		},
		Knowledge: KnowledgeConfig{
			Timeout: 5 * time.Second,
		},
		Enricher: EnricherConfig{
			PrivilegedPatterns: []string{
				`^role(s)?$`,
				`permission`,
				`^is_?admin$`,
				`admin`,
				`scope(s)?$`,
				`privilege`,
				`owner(_?id)?$`,
				`tenant(_?id)?$`,
			},
			MaxDependents: 50,
			MaxPathDepth:  16,
		},
		Cache: CacheConfig{
			Parse:         CacheLevelConfig{Capacity: 64, TTL: 30 * time.Minute},
			Spec:          CacheLevelConfig{Capacity: 128, TTL: 10 * time.Minute},
			Findings:      CacheLevelConfig{Capacity: 256, TTL: time.Hour},
			Graph:         CacheLevelConfig{Capacity: 256, TTL: 24 * time.Hour},
			SweepInterval: time.Minute,
		},
		Store: StoreConfig{
			Backend:   StoreBackendNone,
			Path:      DefaultResultStorePath(),
			KeyPrefix: "specscope:result:",
			TTL:       72 * time.Hour,
		},
	}
}
