package layout

import (
	"math"

	rerrors "github.com/matzehuels/relgraph/pkg/errors"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds every tunable constant of the layout pipeline. The defaults
// are calibrated for a canvas of roughly 1000×800 units; scale the spacing
// and spiral values together with the canvas.
type Config struct {
	Seed        SeedConfig        `toml:"seed"`
	Stress      StressConfig      `toml:"stress"`
	Force       ForceConfig       `toml:"force"`
	Crossing    CrossingConfig    `toml:"crossing"`
	Incremental IncrementalConfig `toml:"incremental"`
}

// SeedConfig controls deterministic initial placement.
type SeedConfig struct {
	// ClusterRingRatio is the radius of the ring of cluster centers as a
	// fraction of the shorter canvas side.
	ClusterRingRatio    float64 `toml:"cluster_ring_ratio"`
	ClusterBaseRadius   float64 `toml:"cluster_base_radius"`
	ClusterRadiusGrowth float64 `toml:"cluster_radius_growth"`
	SpiralStep          float64 `toml:"spiral_step"`
}

// StressConfig controls stress majorization.
type StressConfig struct {
	Iterations      int `toml:"iterations"`
	LargeIterations int `toml:"large_iterations"`
	// LargeThreshold is the node count above which LargeIterations applies.
	LargeThreshold int `toml:"large_threshold"`
	YieldEvery     int `toml:"yield_every"`
}

// ForceConfig controls force-directed refinement and collision handling.
type ForceConfig struct {
	Iterations    int `toml:"iterations"`
	MaxIterations int `toml:"max_iterations"`
	YieldEvery    int `toml:"yield_every"`

	RepulsionStrength  float64 `toml:"repulsion_strength"`
	AttractionStrength float64 `toml:"attraction_strength"`
	GravityStrength    float64 `toml:"gravity_strength"`
	Damping            float64 `toml:"damping"`

	MinSpacing      float64 `toml:"min_spacing"`
	CollisionPasses int     `toml:"collision_passes"`

	// Barnes–Hut approximation. Repulsion switches from the direct double
	// loop to a quadtree once the node count exceeds BarnesHutThreshold,
	// or always when ForceBarnesHut is set.
	BarnesHutThreshold int     `toml:"barnes_hut_threshold"`
	ForceBarnesHut     bool    `toml:"force_barnes_hut"`
	Theta              float64 `toml:"theta"`
	QuadtreeMaxDepth   int     `toml:"quadtree_max_depth"`
	QuadtreePadding    float64 `toml:"quadtree_padding"`
}

// CrossingConfig controls PrEd-style node/edge repulsion.
type CrossingConfig struct {
	Iterations  int     `toml:"iterations"`
	Temperature float64 `toml:"temperature"`
	Threshold   float64 `toml:"threshold"`
	Strength    float64 `toml:"strength"`
	YieldEvery  int     `toml:"yield_every"`
}

// IncrementalConfig controls neighborhood relayout.
type IncrementalConfig struct {
	Iterations int `toml:"iterations"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Seed: SeedConfig{
			ClusterRingRatio:    0.3,
			ClusterBaseRadius:   40,
			ClusterRadiusGrowth: 6,
			SpiralStep:          40,
		},
		Stress: StressConfig{
			Iterations:      100,
			LargeIterations: 60,
			LargeThreshold:  200,
			YieldEvery:      25,
		},
		Force: ForceConfig{
			Iterations:         200,
			MaxIterations:      200,
			YieldEvery:         50,
			RepulsionStrength:  8000,
			AttractionStrength: 0.004,
			GravityStrength:    0.002,
			Damping:            0.75,
			MinSpacing:         40,
			CollisionPasses:    100,
			BarnesHutThreshold: 500,
			Theta:              0.8,
			QuadtreeMaxDepth:   40,
			QuadtreePadding:    10,
		},
		Crossing: CrossingConfig{
			Iterations:  50,
			Temperature: 0.3,
			Threshold:   60,
			Strength:    8,
			YieldEvery:  25,
		},
		Incremental: IncrementalConfig{
			Iterations: 50,
		},
	}
}

// Validate reports the first out-of-range field as an INVALID_CONFIG error.
func (c Config) Validate() error {
	floats := []struct {
		name string
		v    float64
	}{
		{"seed.cluster_ring_ratio", c.Seed.ClusterRingRatio},
		{"seed.cluster_base_radius", c.Seed.ClusterBaseRadius},
		{"seed.cluster_radius_growth", c.Seed.ClusterRadiusGrowth},
		{"seed.spiral_step", c.Seed.SpiralStep},
		{"force.repulsion_strength", c.Force.RepulsionStrength},
		{"force.attraction_strength", c.Force.AttractionStrength},
		{"force.gravity_strength", c.Force.GravityStrength},
		{"force.damping", c.Force.Damping},
		{"force.min_spacing", c.Force.MinSpacing},
		{"force.theta", c.Force.Theta},
		{"force.quadtree_padding", c.Force.QuadtreePadding},
		{"crossing.temperature", c.Crossing.Temperature},
		{"crossing.threshold", c.Crossing.Threshold},
		{"crossing.strength", c.Crossing.Strength},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "%s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	if c.Force.Damping > 1 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "force.damping must be at most 1, got %v", c.Force.Damping)
	}

	ints := []struct {
		name string
		v    int
	}{
		{"stress.iterations", c.Stress.Iterations},
		{"stress.large_iterations", c.Stress.LargeIterations},
		{"stress.large_threshold", c.Stress.LargeThreshold},
		{"force.iterations", c.Force.Iterations},
		{"force.max_iterations", c.Force.MaxIterations},
		{"force.collision_passes", c.Force.CollisionPasses},
		{"force.barnes_hut_threshold", c.Force.BarnesHutThreshold},
		{"force.quadtree_max_depth", c.Force.QuadtreeMaxDepth},
		{"crossing.iterations", c.Crossing.Iterations},
		{"incremental.iterations", c.Incremental.Iterations},
	}
	for _, f := range ints {
		if f.v < 0 {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "%s must not be negative, got %d", f.name, f.v)
		}
	}

	yields := []struct {
		name string
		v    int
	}{
		{"stress.yield_every", c.Stress.YieldEvery},
		{"force.yield_every", c.Force.YieldEvery},
		{"crossing.yield_every", c.Crossing.YieldEvery},
	}
	for _, f := range yields {
		if f.v < 1 {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "%s must be at least 1, got %d", f.name, f.v)
		}
	}
	return nil
}

// =============================================================================
// Bundling Options
// =============================================================================

// BundleOptions controls force-directed edge bundling.
type BundleOptions struct {
	// Subdivisions is the number of segments per edge; each polyline has
	// Subdivisions+1 control points including both endpoints.
	Subdivisions int `toml:"subdivisions"`
	Iterations   int `toml:"iterations"`
	// Compatibility is the minimum |cos| between two edges' directions for
	// them to attract each other.
	Compatibility float64 `toml:"compatibility"`
	// MaxDistance bounds how far apart two control points may be and still
	// attract.
	MaxDistance float64 `toml:"max_distance"`
	// InitialStep is the step size of the first iteration. It decays
	// linearly to zero.
	InitialStep float64 `toml:"initial_step"`
}

// DefaultBundleOptions returns the default bundling options.
func DefaultBundleOptions() BundleOptions {
	return BundleOptions{
		Subdivisions:  5,
		Iterations:    40,
		Compatibility: 0.6,
		MaxDistance:   300,
		InitialStep:   1.5,
	}
}

// Validate reports the first out-of-range field as an INVALID_CONFIG error.
func (o BundleOptions) Validate() error {
	if o.Subdivisions < 1 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "bundle.subdivisions must be at least 1, got %d", o.Subdivisions)
	}
	if o.Iterations < 0 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "bundle.iterations must not be negative, got %d", o.Iterations)
	}
	if math.IsNaN(o.Compatibility) || o.Compatibility < 0 || o.Compatibility > 1 {
		return rerrors.New(rerrors.ErrCodeInvalidConfig, "bundle.compatibility must be within [0, 1], got %v", o.Compatibility)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"bundle.max_distance", o.MaxDistance}, {"bundle.initial_step", o.InitialStep}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return rerrors.New(rerrors.ErrCodeInvalidConfig, "%s must be a non-negative number, got %v", f.name, f.v)
		}
	}
	return nil
}
