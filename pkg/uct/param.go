package uct

import (
	"fmt"
	"strconv"
)

// MoveSelect chooses how the final move is picked from the root children.
type MoveSelect int

const (
	// MoveSelectCount picks the child with the highest move count, the
	// default and most stable criterion.
	MoveSelectCount MoveSelect = iota
	// MoveSelectValue picks the child with the best mean value.
	MoveSelectValue
	// MoveSelectBound picks by the full selection bound.
	MoveSelectBound
	// MoveSelectEstimate picks by the RAVE-blended value estimate.
	MoveSelectEstimate
)

// PriorKind selects the prior-knowledge oracle seeded into new children.
type PriorKind int

const (
	PriorNone PriorKind = iota
	PriorEven
	PriorDefault
)

// SearchMode selects how the player wrapper produces a move.
type SearchMode int

const (
	SearchModeUct SearchMode = iota
	SearchModePlayoutPolicy
	SearchModeOnePly
)

// LiveGfxMode selects the live progress emission.
type LiveGfxMode int

const (
	LiveGfxNone LiveGfxMode = iota
	LiveGfxCounts
	LiveGfxSequence
)

// Params is the full parameter surface of the search core. Zero values are
// not meaningful; start from DefaultParams. String access for an engine
// front-end goes through Set and Get, which validate at set-time.
type Params struct {
	MaxGames   uint64
	MaxNodes   int
	MaxTime    float64 // seconds
	NumThreads int

	NumPlayouts     int
	ExpandThreshold uint32
	MaxGameLength   int

	FirstPlayUrgency float64
	BiasConstant     float64
	NoBiasTerm       bool

	Rave              bool
	RaveCheckSame     bool
	RaveWeightInitial float64
	RaveWeightFinal   float64

	LockFree    bool
	VirtualLoss bool

	Ponder          bool
	ReuseSubtree    bool
	IgnoreClock     bool
	ResignThreshold float64
	EarlyPass       bool

	MoveSelect     MoveSelect
	PriorKnowledge PriorKind
	SearchMode     SearchMode

	LiveGfx         LiveGfxMode
	LiveGfxInterval uint64

	TerritoryStatistics bool
	MercyRule           bool
	ScoreModification   float64
}

func DefaultParams() *Params {
	return &Params{
		MaxGames:          999999999,
		MaxNodes:          1 << 20,
		MaxTime:           10,
		NumThreads:        1,
		NumPlayouts:       1,
		ExpandThreshold:   1,
		MaxGameLength:     1 << 20,
		FirstPlayUrgency:  1.0,
		BiasConstant:      0.7,
		Rave:              true,
		RaveWeightInitial: 1.0,
		RaveWeightFinal:   20000,
		LockFree:          true,
		ResignThreshold:   0.05,
		MoveSelect:        MoveSelectCount,
		PriorKnowledge:    PriorDefault,
		SearchMode:        SearchModeUct,
		LiveGfxInterval:   5000,
		MercyRule:         true,
		ScoreModification: 0.02,
	}
}

// Validate rejects inconsistent parameter combinations.
func (p *Params) Validate() error {
	switch {
	case p.NumThreads < 1:
		return fmt.Errorf("uct: num_threads must be >= 1, got %d", p.NumThreads)
	case p.MaxNodes < 1:
		return fmt.Errorf("uct: max_nodes must be >= 1, got %d", p.MaxNodes)
	case p.NumPlayouts < 1:
		return fmt.Errorf("uct: num_playouts must be >= 1, got %d", p.NumPlayouts)
	case p.ExpandThreshold < 1:
		return fmt.Errorf("uct: expand_threshold must be >= 1, got %d", p.ExpandThreshold)
	case p.BiasConstant < 0:
		return fmt.Errorf("uct: bias_constant must be >= 0, got %g", p.BiasConstant)
	case p.ResignThreshold < 0 || p.ResignThreshold > 1:
		return fmt.Errorf("uct: resign_threshold must be in [0,1], got %g", p.ResignThreshold)
	case p.Rave && p.RaveWeightInitial <= 0:
		return fmt.Errorf("uct: rave_weight_initial must be > 0, got %g", p.RaveWeightInitial)
	case p.Rave && p.RaveWeightFinal <= 0:
		return fmt.Errorf("uct: rave_weight_final must be > 0, got %g", p.RaveWeightFinal)
	case p.MaxGameLength < 1:
		return fmt.Errorf("uct: max_game_length must be >= 1, got %d", p.MaxGameLength)
	}
	return nil
}

// Set parses and assigns one parameter by key. The assignment is rejected
// (and the previous value kept) if it would leave the parameters
// inconsistent.
func (p *Params) Set(key, value string) error {
	saved := *p
	if err := p.set(key, value); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		*p = saved
		return err
	}
	return nil
}

func (p *Params) set(key, value string) error {
	var err error
	switch key {
	case "max_games":
		p.MaxGames, err = strconv.ParseUint(value, 10, 64)
	case "max_nodes":
		p.MaxNodes, err = strconv.Atoi(value)
	case "max_time":
		p.MaxTime, err = strconv.ParseFloat(value, 64)
	case "num_threads":
		p.NumThreads, err = strconv.Atoi(value)
	case "num_playouts":
		p.NumPlayouts, err = strconv.Atoi(value)
	case "expand_threshold":
		var v uint64
		v, err = strconv.ParseUint(value, 10, 32)
		p.ExpandThreshold = uint32(v)
	case "max_game_length":
		p.MaxGameLength, err = strconv.Atoi(value)
	case "first_play_urgency":
		p.FirstPlayUrgency, err = strconv.ParseFloat(value, 64)
	case "bias_constant":
		p.BiasConstant, err = strconv.ParseFloat(value, 64)
	case "no_bias_term":
		p.NoBiasTerm, err = strconv.ParseBool(value)
	case "rave":
		p.Rave, err = strconv.ParseBool(value)
	case "rave_check_same":
		p.RaveCheckSame, err = strconv.ParseBool(value)
	case "rave_weight_initial":
		p.RaveWeightInitial, err = strconv.ParseFloat(value, 64)
	case "rave_weight_final":
		p.RaveWeightFinal, err = strconv.ParseFloat(value, 64)
	case "lock_free":
		p.LockFree, err = strconv.ParseBool(value)
	case "virtual_loss":
		p.VirtualLoss, err = strconv.ParseBool(value)
	case "ponder":
		p.Ponder, err = strconv.ParseBool(value)
	case "reuse_subtree":
		p.ReuseSubtree, err = strconv.ParseBool(value)
	case "ignore_clock":
		p.IgnoreClock, err = strconv.ParseBool(value)
	case "resign_threshold":
		p.ResignThreshold, err = strconv.ParseFloat(value, 64)
	case "early_pass":
		p.EarlyPass, err = strconv.ParseBool(value)
	case "move_select":
		p.MoveSelect, err = parseEnum(value, map[string]MoveSelect{
			"value": MoveSelectValue, "count": MoveSelectCount,
			"bound": MoveSelectBound, "estimate": MoveSelectEstimate,
		})
	case "prior_knowledge":
		p.PriorKnowledge, err = parseEnum(value, map[string]PriorKind{
			"none": PriorNone, "even": PriorEven, "default": PriorDefault,
		})
	case "search_mode":
		p.SearchMode, err = parseEnum(value, map[string]SearchMode{
			"uct": SearchModeUct, "playout_policy": SearchModePlayoutPolicy,
			"one_ply": SearchModeOnePly,
		})
	case "live_gfx":
		p.LiveGfx, err = parseEnum(value, map[string]LiveGfxMode{
			"none": LiveGfxNone, "counts": LiveGfxCounts,
			"sequence": LiveGfxSequence,
		})
	case "live_gfx_interval":
		p.LiveGfxInterval, err = strconv.ParseUint(value, 10, 64)
	case "territory_statistics":
		p.TerritoryStatistics, err = strconv.ParseBool(value)
	case "mercy_rule":
		p.MercyRule, err = strconv.ParseBool(value)
	case "score_modification":
		p.ScoreModification, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("uct: unknown parameter %q", key)
	}
	if err != nil {
		return fmt.Errorf("uct: invalid value %q for %s: %w", value, key, err)
	}
	return nil
}

// Get formats one parameter by key.
func (p *Params) Get(key string) (string, error) {
	switch key {
	case "max_games":
		return strconv.FormatUint(p.MaxGames, 10), nil
	case "max_nodes":
		return strconv.Itoa(p.MaxNodes), nil
	case "max_time":
		return strconv.FormatFloat(p.MaxTime, 'g', -1, 64), nil
	case "num_threads":
		return strconv.Itoa(p.NumThreads), nil
	case "num_playouts":
		return strconv.Itoa(p.NumPlayouts), nil
	case "expand_threshold":
		return strconv.FormatUint(uint64(p.ExpandThreshold), 10), nil
	case "max_game_length":
		return strconv.Itoa(p.MaxGameLength), nil
	case "first_play_urgency":
		return strconv.FormatFloat(p.FirstPlayUrgency, 'g', -1, 64), nil
	case "bias_constant":
		return strconv.FormatFloat(p.BiasConstant, 'g', -1, 64), nil
	case "no_bias_term":
		return strconv.FormatBool(p.NoBiasTerm), nil
	case "rave":
		return strconv.FormatBool(p.Rave), nil
	case "rave_check_same":
		return strconv.FormatBool(p.RaveCheckSame), nil
	case "rave_weight_initial":
		return strconv.FormatFloat(p.RaveWeightInitial, 'g', -1, 64), nil
	case "rave_weight_final":
		return strconv.FormatFloat(p.RaveWeightFinal, 'g', -1, 64), nil
	case "lock_free":
		return strconv.FormatBool(p.LockFree), nil
	case "virtual_loss":
		return strconv.FormatBool(p.VirtualLoss), nil
	case "ponder":
		return strconv.FormatBool(p.Ponder), nil
	case "reuse_subtree":
		return strconv.FormatBool(p.ReuseSubtree), nil
	case "ignore_clock":
		return strconv.FormatBool(p.IgnoreClock), nil
	case "resign_threshold":
		return strconv.FormatFloat(p.ResignThreshold, 'g', -1, 64), nil
	case "early_pass":
		return strconv.FormatBool(p.EarlyPass), nil
	case "move_select":
		return formatEnum(p.MoveSelect, map[MoveSelect]string{
			MoveSelectValue: "value", MoveSelectCount: "count",
			MoveSelectBound: "bound", MoveSelectEstimate: "estimate",
		}), nil
	case "prior_knowledge":
		return formatEnum(p.PriorKnowledge, map[PriorKind]string{
			PriorNone: "none", PriorEven: "even", PriorDefault: "default",
		}), nil
	case "search_mode":
		return formatEnum(p.SearchMode, map[SearchMode]string{
			SearchModeUct: "uct", SearchModePlayoutPolicy: "playout_policy",
			SearchModeOnePly: "one_ply",
		}), nil
	case "live_gfx":
		return formatEnum(p.LiveGfx, map[LiveGfxMode]string{
			LiveGfxNone: "none", LiveGfxCounts: "counts",
			LiveGfxSequence: "sequence",
		}), nil
	case "live_gfx_interval":
		return strconv.FormatUint(p.LiveGfxInterval, 10), nil
	case "territory_statistics":
		return strconv.FormatBool(p.TerritoryStatistics), nil
	case "mercy_rule":
		return strconv.FormatBool(p.MercyRule), nil
	case "score_modification":
		return strconv.FormatFloat(p.ScoreModification, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("uct: unknown parameter %q", key)
}

func parseEnum[E comparable](value string, table map[string]E) (E, error) {
	if v, ok := table[value]; ok {
		return v, nil
	}
	var zero E
	return zero, fmt.Errorf("unrecognized choice %q", value)
}

func formatEnum[E comparable](v E, table map[E]string) string {
	if s, ok := table[v]; ok {
		return s
	}
	return "unknown"
}
