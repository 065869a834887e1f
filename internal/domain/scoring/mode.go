package scoring

import (
	"fmt"
	"strings"

	"github.com/okian/venturecast/internal/domain/model"
)

// Mode selects which extreme outcome a probability refers to.
type Mode int

// Prediction modes.
const (
	// ModeUnicorn is the primary mode: reaching a unicorn valuation.
	ModeUnicorn Mode = iota
	// ModeDecacorn is roughly an order of magnitude rarer than a unicorn.
	ModeDecacorn
	// ModeBillionaire approximates a founder-billionaire exit, scaled by the
	// founders' expected equity at exit.
	ModeBillionaire
)

var modeNames = [...]string{"unicorn", "decacorn", "billionaire"}

// Modes lists every mode.
func Modes() []Mode { return []Mode{ModeUnicorn, ModeDecacorn, ModeBillionaire} }

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is a declared mode.
func (m Mode) Valid() bool { return m >= ModeUnicorn && m <= ModeBillionaire }

// ParseMode parses a mode wire name, case-insensitively.
func ParseMode(v string) (Mode, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, n := range modeNames {
		if n == v {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, v)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// TargetOutcome is the label counted as a hit (actual = 1) under m.
// Every mode is calibrated against observed unicorns.
func (m Mode) TargetOutcome() model.Outcome { return model.OutcomeUnicorn }

// Actual maps an observed label to the binary outcome used for calibration.
func (m Mode) Actual(o model.Outcome) int {
	if o == m.TargetOutcome() {
		return 1
	}
	return 0
}
