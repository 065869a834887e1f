package model

import (
	"fmt"
	"strings"
)

// Sector classifies the market a venture operates in.
type Sector int

// Supported sectors.
const (
	SectorAIML Sector = iota
	SectorFintech
	SectorHealthtech
	SectorEnterpriseSaaS
	SectorConsumer
	SectorCrypto
)

var sectorNames = [...]string{"ai_ml", "fintech", "healthtech", "enterprise_saas", "consumer", "crypto"}

// Sectors lists every sector in declaration order.
func Sectors() []Sector {
	return []Sector{SectorAIML, SectorFintech, SectorHealthtech, SectorEnterpriseSaaS, SectorConsumer, SectorCrypto}
}

func (s Sector) String() string {
	if s < 0 || int(s) >= len(sectorNames) {
		return fmt.Sprintf("sector(%d)", int(s))
	}
	return sectorNames[s]
}

// ParseSector parses a sector wire name, case-insensitively.
func ParseSector(v string) (Sector, error) {
	i, err := parseName(v, sectorNames[:])
	if err != nil {
		return 0, fmt.Errorf("%w: sector %q", ErrUnknownValue, v)
	}
	return Sector(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Sector) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sector) UnmarshalText(b []byte) error {
	v, err := ParseSector(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Stage is the funding stage of a venture. Later stages are more mature.
type Stage int

// Funding stages, ordered by maturity.
const (
	StageSeed Stage = iota
	StageSeriesA
	StageSeriesB
	StageSeriesCPlus
)

var stageNames = [...]string{"seed", "series_a", "series_b", "series_c_plus"}

// Stages lists every stage from least to most mature.
func Stages() []Stage {
	return []Stage{StageSeed, StageSeriesA, StageSeriesB, StageSeriesCPlus}
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage parses a stage wire name, case-insensitively.
func ParseStage(v string) (Stage, error) {
	i, err := parseName(v, stageNames[:])
	if err != nil {
		return 0, fmt.Errorf("%w: stage %q", ErrUnknownValue, v)
	}
	return Stage(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(b []byte) error {
	v, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// VCTier ranks the lead investor of a venture.
type VCTier int

// Investor tiers.
const (
	TierOne VCTier = iota
	TierTwo
	TierThree
)

var tierNames = [...]string{"tier1", "tier2", "tier3"}

// VCTiers lists every investor tier.
func VCTiers() []VCTier {
	return []VCTier{TierOne, TierTwo, TierThree}
}

func (t VCTier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseVCTier parses a tier wire name, case-insensitively.
func ParseVCTier(v string) (VCTier, error) {
	i, err := parseName(v, tierNames[:])
	if err != nil {
		return 0, fmt.Errorf("%w: vc tier %q", ErrUnknownValue, v)
	}
	return VCTier(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (t VCTier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *VCTier) UnmarshalText(b []byte) error {
	v, err := ParseVCTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Outcome is the observed trajectory of a venture.
// Active is the only non-terminal state.
type Outcome int

// Venture outcomes.
const (
	OutcomeActive Outcome = iota
	OutcomeUnicorn
	OutcomeSuccess
	OutcomeFailed
)

var outcomeNames = [...]string{"active", "unicorn", "success", "failed"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// IsTerminal reports whether o is one of the resolved labels.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeUnicorn || o == OutcomeSuccess || o == OutcomeFailed
}

// ParseOutcome parses an outcome wire name, case-insensitively.
func ParseOutcome(v string) (Outcome, error) {
	i, err := parseName(v, outcomeNames[:])
	if err != nil {
		return 0, fmt.Errorf("%w: outcome %q", ErrUnknownValue, v)
	}
	return Outcome(i), nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func parseName(v string, names []string) (int, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, n := range names {
		if n == v {
			return i, nil
		}
	}
	return 0, ErrUnknownValue
}
