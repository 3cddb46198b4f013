package featureflag

import (
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"
)

// EnvGate reads the variant addressing flag from the environment on every
// call, so flipping SHOPADMIN_USE_VARIANT_LABEL takes effect on the next
// request without a restart. An unset or unparsable value means legacy
// addressing.
type EnvGate struct {
	v *viper.Viper
}

// NewEnvGate creates an environment-backed addressing gate. The default
// seeds the value for environments where the variable is never set.
func NewEnvGate(defaultEnabled bool) *EnvGate {
	v := viper.New()
	v.SetEnvPrefix("SHOPADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("use_variant_label", defaultEnabled)
	return &EnvGate{v: v}
}

// IsLabelModeEnabled reports whether variants are addressed by label
func (g *EnvGate) IsLabelModeEnabled() bool {
	return g.v.GetBool("use_variant_label")
}

// StaticGate is a gate fixed at construction, for tests and for deployments
// that pin the addressing scheme. The value can still be toggled at runtime
// through Set.
type StaticGate struct {
	enabled atomic.Bool
}

// NewStaticGate creates a gate pinned to the given mode
func NewStaticGate(enabled bool) *StaticGate {
	g := &StaticGate{}
	g.enabled.Store(enabled)
	return g
}

// IsLabelModeEnabled reports whether variants are addressed by label
func (g *StaticGate) IsLabelModeEnabled() bool {
	return g.enabled.Load()
}

// Set flips the gate
func (g *StaticGate) Set(enabled bool) {
	g.enabled.Store(enabled)
}
