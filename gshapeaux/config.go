package gshapeaux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/gshape/glsl"
)

// Config configures the gallery window and its items. It is usually decoded
// from a TOML file with [LoadConfig].
type Config struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// Silent disables progress printing to stdout.
	Silent bool `toml:"silent"`
	// Background is the clear color.
	Background [3]float32 `toml:"background"`
	// VectorLength is the length of normals drawn by vector items relative to
	// the item's bounding box diagonal.
	VectorLength float32 `toml:"vector_length"`
	// FOV is the vertical field of view in degrees.
	FOV   float32      `toml:"fov"`
	Items []ItemConfig `toml:"item"`
}

// ItemConfig configures a single gallery item.
type ItemConfig struct {
	// Shape is a shape name as accepted by [NewShape], i.e: "toroid" or "cube.wire".
	Shape string `toml:"shape"`
	// Style is a glsl style name, i.e: "lit". Empty means "plain".
	Style string `toml:"style"`
	// Mover is a mover name as accepted by [ParseMover].
	Mover string `toml:"mover"`
	// Hue in [0,1) selects the item color.
	Hue float32 `toml:"hue"`
	// Detail multiplies the tessellation of the shape. Zero means 1.
	Detail int `toml:"detail"`
	// Text is the logo text for "logo" shapes.
	Text string `toml:"text"`
}

// DefaultConfig returns the configuration used when no file is given: a tour
// of every generator.
func DefaultConfig() Config {
	return Config{
		Title:        "gshape gallery",
		Width:        800,
		Height:       600,
		Background:   [3]float32{0.05, 0.05, 0.08},
		VectorLength: 0.08,
		FOV:          45,
		Items: []ItemConfig{
			{Shape: "toroid", Style: "lit", Mover: "tumble", Hue: 0.05},
			{Shape: "toroid.wire", Style: "color", Mover: "tumble"},
			{Shape: "sphere.vectors", Style: "vectors", Mover: "tumble", Hue: 0.6},
			{Shape: "icosphere", Style: "cube", Mover: "spin"},
			{Shape: "cube", Style: "texcoord", Mover: "tumble"},
			{Shape: "sharedcube", Style: "lit", Mover: "tumble", Hue: 0.3},
			{Shape: "cylinder", Style: "lit", Mover: "tumble", Hue: 0.15},
			{Shape: "cylinoid", Style: "lit", Mover: "tumble", Hue: 0.8},
			{Shape: "knot", Style: "lit", Mover: "spin", Hue: 0.45},
			{Shape: "knotcurve", Style: "color", Mover: "spin"},
			{Shape: "grid.wire", Style: "plain", Mover: "still", Hue: 0.5},
			{Shape: "ripple", Style: "lit", Mover: "spin", Hue: 0.55},
			{Shape: "bump.points", Style: "color", Mover: "spin"},
			{Shape: "logo", Style: "plain", Mover: "spin", Hue: 0.1, Text: "gshape"},
		},
	}
}

// LoadConfig decodes a TOML configuration from r. Fields absent from the
// document keep their [DefaultConfig] values; items replace the default list.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	cfg.Items = nil
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config %d:%d: %w", row, col, err)
		}
		return Config{}, err
	}
	if len(cfg.Items) == 0 {
		cfg.Items = DefaultConfig().Items
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile is [LoadConfig] reading from the named file.
func LoadConfigFile(filename string) (Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	return LoadConfig(fp)
}

// Validate checks the window parameters and that every item names a known
// shape, style and mover.
func (cfg *Config) Validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("window dimensions must be positive")
	} else if cfg.FOV <= 0 || cfg.FOV >= 180 {
		return errors.New("field of view must be in (0,180) degrees")
	} else if len(cfg.Items) == 0 {
		return errors.New("no gallery items")
	}
	var errs []error
	for i, item := range cfg.Items {
		if _, _, err := parseShapeName(item.Shape); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
		if _, err := item.style(); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
		if _, err := ParseMover(item.Mover); err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
		}
		if item.Detail < 0 || item.Detail > 16 {
			errs = append(errs, fmt.Errorf("item %d: detail must be in [0,16]", i))
		}
	}
	return errors.Join(errs...)
}

func (item *ItemConfig) style() (glsl.Style, error) {
	if item.Style == "" {
		return glsl.StylePlain, nil
	}
	return glsl.ParseStyle(item.Style)
}
