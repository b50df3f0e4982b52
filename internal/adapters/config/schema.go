package config

import "time"

// File represents the structure of the specscope.yaml configuration file.
// Every field is optional; absent fields keep their defaults.
type File struct {
	Version   string        `yaml:"version"`
	Engine    *EngineDTO    `yaml:"engine"`
	Knowledge *KnowledgeDTO `yaml:"knowledge"`
	Enricher  *EnricherDTO  `yaml:"enricher"`
	Cache     *CacheDTO     `yaml:"cache"`
	Store     *StoreDTO     `yaml:"store"`
	Telemetry *TelemetryDTO `yaml:"telemetry"`
}

// EngineDTO configures the reasoning engine client.
type EngineDTO struct {
	Endpoint      *string        `yaml:"endpoint"`
	APIKeyEnv     *string        `yaml:"apiKeyEnv"`
	Budget        *time.Duration `yaml:"budget"`
	TriageTimeout *time.Duration `yaml:"triageTimeout"`
	DeepTimeout   *time.Duration `yaml:"deepTimeout"`
	TriageShare   *float64       `yaml:"triageShare"`
	RateLimit     *float64       `yaml:"rateLimit"`
	Burst         *int           `yaml:"burst"`
	MaxRetries    *int           `yaml:"maxRetries"`
}

// KnowledgeDTO configures the snippet source.
type KnowledgeDTO struct {
	Path    *string        `yaml:"path"`
	Timeout *time.Duration `yaml:"timeout"`
}

// EnricherDTO configures the enrichment heuristics. A non-empty pattern list
// replaces the defaults.
type EnricherDTO struct {
	PrivilegedPatterns []string `yaml:"privilegedPatterns"`
	MaxDependents      *int     `yaml:"maxDependents"`
	MaxPathDepth       *int     `yaml:"maxPathDepth"`
}

// CacheLevelDTO sizes one cache.
type CacheLevelDTO struct {
	Capacity *int           `yaml:"capacity"`
	TTL      *time.Duration `yaml:"ttl"`
}

// CacheDTO sizes the in-process caches.
type CacheDTO struct {
	Parse         *CacheLevelDTO `yaml:"parse"`
	Spec          *CacheLevelDTO `yaml:"spec"`
	Findings      *CacheLevelDTO `yaml:"findings"`
	Graph         *CacheLevelDTO `yaml:"graph"`
	SweepInterval *time.Duration `yaml:"sweepInterval"`
}

// StoreDTO selects the durable result tier.
type StoreDTO struct {
	Backend   *string        `yaml:"backend"`
	Path      *string        `yaml:"path"`
	RedisAddr *string        `yaml:"redisAddr"`
	RedisDB   *int           `yaml:"redisDB"`
	KeyPrefix *string        `yaml:"keyPrefix"`
	TTL       *time.Duration `yaml:"ttl"`
}

// TelemetryDTO toggles span recording.
type TelemetryDTO struct {
	Enabled *bool `yaml:"enabled"`
}
