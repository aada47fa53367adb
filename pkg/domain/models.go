// Package domain contains the brand finder's models
package domain

import "time"

// Config represents the configuration file structure
type Config struct {
	Username          string       `json:"username" yaml:"username"`
	Password          string       `json:"password" yaml:"password"`
	Provider          string       `json:"provider" yaml:"provider"` // loopia, dns or static
	PrimaryTLD        string       `json:"primary_tld" yaml:"primary_tld"`
	AlternateTLDs     []string     `json:"alternate_tlds" yaml:"alternate_tlds"`
	LogLevel          string       `json:"log_level" yaml:"log_level"`
	RateLimit         int          `json:"rate_limit" yaml:"rate_limit"`                   // Loopia calls allowed per window
	RateWindowSeconds int          `json:"rate_window_seconds" yaml:"rate_window_seconds"` // length of the rate window
	Search            SearchConfig `json:"search" yaml:"search"`
	Cache             CacheConfig  `json:"cache" yaml:"cache"`
	Server            ServerConfig `json:"server" yaml:"server"`
}

// SearchConfig holds the budgets and tuning knobs of the relaxation ladder
type SearchConfig struct {
	TimeBudgetMS    int     `json:"time_budget_ms" yaml:"time_budget_ms"`
	MaxLookups      int     `json:"max_lookups" yaml:"max_lookups"` // hard ceiling per run, near-miss probes included
	BatchSize       int     `json:"batch_size" yaml:"batch_size"`
	Concurrency     int     `json:"concurrency" yaml:"concurrency"`
	MaxRetries      int     `json:"max_retries" yaml:"max_retries"`
	BackoffMS       int     `json:"backoff_ms" yaml:"backoff_ms"`
	MaxBackoffMS    int     `json:"max_backoff_ms" yaml:"max_backoff_ms"` // 0 keeps every retry at backoff_ms
	CacheTTLSeconds int     `json:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	MinLength       int     `json:"min_length" yaml:"min_length"`
	BasePoolSize    int     `json:"base_pool_size" yaml:"base_pool_size"`
	FloorPercentile float64 `json:"floor_percentile" yaml:"floor_percentile"`
	FloorMargin     float64 `json:"floor_margin" yaml:"floor_margin"`
	FloorMarginStep float64 `json:"floor_margin_step" yaml:"floor_margin_step"`
	AbsoluteFloor   float64 `json:"absolute_floor" yaml:"absolute_floor"`
	NearMissLimit   int     `json:"near_miss_limit" yaml:"near_miss_limit"`
}

// CacheConfig selects the availability cache backend
type CacheConfig struct {
	Driver string `json:"driver" yaml:"driver"` // memory or sqlite
	Path   string `json:"path" yaml:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Strategy tags the composition strategy that built a candidate
type Strategy string

const (
	StrategyTwoWord          Strategy = "two_word"
	StrategySemanticCompound Strategy = "semantic_compound"
	StrategyWordplayBlend    Strategy = "wordplay_blend"
	StrategyEmotiveRoot      Strategy = "emotive_root"
	StrategyActionNoun       Strategy = "action_noun"
	StrategyRootSuffix       Strategy = "root_suffix"
	StrategyPrefixRoot       Strategy = "prefix_root"
	StrategyVibeNounRoot     Strategy = "vibe_noun_root"
	StrategyPortmanteau      Strategy = "portmanteau"
	StrategyVowelBlend       Strategy = "vowel_blend"
	StrategyRealWordTwist    Strategy = "real_word_twist"
	StrategyVowelSwap        Strategy = "vowel_swap"
	StrategyLetterOmission   Strategy = "letter_omission"
	StrategyMoodPairing      Strategy = "mood_pairing"
)

// KeywordMode controls how strictly a keyword must appear in a name
type KeywordMode string

const (
	KeywordExact   KeywordMode = "exact"
	KeywordPartial KeywordMode = "partial"
	KeywordNone    KeywordMode = "none"
)

// KeywordPosition is where a keyword is expected inside a name
type KeywordPosition string

const (
	PositionPrefix   KeywordPosition = "prefix"
	PositionSuffix   KeywordPosition = "suffix"
	PositionAnywhere KeywordPosition = "anywhere"
)

// Style selects between dictionary-like names and invented blends
type Style string

const (
	StyleRealWords       Style = "real_words"
	StyleBrandableBlends Style = "brandable_blends"
)

// Vibe is the caller-selected stylistic tone
type Vibe string

const (
	VibeNone        Vibe = ""
	VibeLuxury      Vibe = "luxury"
	VibeFuturistic  Vibe = "futuristic"
	VibePlayful     Vibe = "playful"
	VibeTrustworthy Vibe = "trustworthy"
	VibeMinimal     Vibe = "minimal"
)

// Industry is one of the fixed lexicon industries
type Industry string

const (
	IndustryGeneral        Industry = "general"
	IndustryTechnology     Industry = "technology"
	IndustryFinance        Industry = "finance"
	IndustryHealth         Industry = "health"
	IndustrySustainability Industry = "sustainability"
	IndustryFood           Industry = "food"
	IndustryEducation      Industry = "education"
	IndustryTravel         Industry = "travel"
	IndustryFashion        Industry = "fashion"
	IndustryCreative       Industry = "creative"
	IndustryEcommerce      Industry = "ecommerce"
)

// Industries lists every supported industry in a stable order
var Industries = []Industry{
	IndustryGeneral, IndustryTechnology, IndustryFinance, IndustryHealth, IndustrySustainability,
	IndustryFood, IndustryEducation, IndustryTravel, IndustryFashion, IndustryCreative, IndustryEcommerce,
}

// QualityBand buckets a composite score
type QualityBand string

const (
	BandHigh   QualityBand = "high"
	BandMedium QualityBand = "medium"
	BandLow    QualityBand = "low"
)

// MorphemeCategory groups morphemes by the idea they carry
type MorphemeCategory string

const (
	CategoryNature  MorphemeCategory = "nature"
	CategoryTech    MorphemeCategory = "tech"
	CategoryMotion  MorphemeCategory = "motion"
	CategoryLight   MorphemeCategory = "light"
	CategoryValue   MorphemeCategory = "value"
	CategoryGrowth  MorphemeCategory = "growth"
	CategoryTrust   MorphemeCategory = "trust"
	CategoryPeople  MorphemeCategory = "people"
	CategoryPlace   MorphemeCategory = "place"
	CategoryQuality MorphemeCategory = "quality"
	CategoryEmotion MorphemeCategory = "emotion"
)

// Candidate is a generated, not yet scored name
type Candidate struct {
	Name        string   `json:"name"`
	Strategy    Strategy `json:"strategy"`
	Roots       []string `json:"roots"`        // fragments the name was built from
	KeywordHits []string `json:"keyword_hits"` // keywords literally contained in the name
}

// ScoredCandidate is a candidate with its composite score and explanations
type ScoredCandidate struct {
	Candidate
	Domain                string             `json:"domain,omitempty"` // set once checked on the primary TLD
	Score                 float64            `json:"score"`
	ScoreBreakdown        map[string]float64 `json:"score_breakdown"`
	QualityBand           QualityBand        `json:"quality_band"`
	MeaningScore          int                `json:"meaning_score"`          // 0-100
	MeaningBreakdown      string             `json:"meaning_breakdown"`      // human readable explanation
	PronounceabilityScore int                `json:"pronounceability_score"` // 0-100
	BrandableScore        int                `json:"brandable_score"`        // 1-10
}

// MorphemeEntry is a sub-word fragment with a human readable meaning
type MorphemeEntry struct {
	Fragment string           `json:"fragment" yaml:"fragment"`
	Meaning  string           `json:"meaning" yaml:"meaning"`
	Category MorphemeCategory `json:"category" yaml:"category"`
	Weight   float64          `json:"weight" yaml:"weight"`
}

// SearchControls bundles the caller's knobs for one search
type SearchControls struct {
	Seed             string              `json:"seed"`
	KeywordMode      KeywordMode         `json:"keyword_mode" validate:"omitempty,oneof=exact partial none"`
	KeywordPosition  KeywordPosition     `json:"keyword_position" validate:"omitempty,oneof=prefix suffix anywhere"`
	Style            Style               `json:"style" validate:"omitempty,oneof=real_words brandable_blends"`
	BlockList        []string            `json:"block_list"`
	AllowList        []string            `json:"allow_list"`
	AllowHyphen      bool                `json:"allow_hyphen"`
	AllowDigits      bool                `json:"allow_digits"`
	MeaningFirst     bool                `json:"meaning_first"`
	PreferTwoWord    bool                `json:"prefer_two_word"`
	SuffixTolerant   bool                `json:"suffix_tolerant"`
	ShowAnyAvailable bool                `json:"show_any_available"` // bypasses the quality floor
	Synonyms         map[string][]string `json:"synonyms"`           // accepted by partial keyword mode
}

// RelaxationStep is one rung of the relaxation ladder
type RelaxationStep struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Applied bool   `json:"applied"`
}

// NearMissOption is a strong name whose primary extension is taken but an alternate is free
type NearMissOption struct {
	Name          string   `json:"name"`
	AvailableTLDs []string `json:"available_tlds"`
}

// RejectionCount is how often a hard filter rejected a candidate
type RejectionCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// Summary holds the diagnostics of one search run
type Summary struct {
	RunID          string           `json:"run_id"`
	Target         int              `json:"target"`
	Generated      int              `json:"generated"`
	Filtered       int              `json:"filtered"`
	Checked        int              `json:"checked"`
	Available      int              `json:"available"`
	ProviderErrors int              `json:"provider_errors"`
	HitRate        float64          `json:"hit_rate"`
	QualityFloor   float64          `json:"quality_floor"`
	FloorBypassed  bool             `json:"floor_bypassed"`
	Relaxations    []RelaxationStep `json:"relaxations"`
	AppliedLabels  []string         `json:"applied_labels"`
	TopRejections  []RejectionCount `json:"top_rejections"`
	NearMisses     []NearMissOption `json:"near_misses"`
	Suggestions    []string         `json:"suggestions"`
	StopReason     string           `json:"stop_reason"`
	Explanation    string           `json:"explanation"`
	Elapsed        time.Duration    `json:"elapsed"`
}

// RunResult is the response of a single search run; it is never persisted
type RunResult struct {
	Picks   []ScoredCandidate `json:"picks"`
	Summary Summary           `json:"summary"`
}
