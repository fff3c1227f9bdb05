package dstretch

import(
	"fmt"
	"io/ioutil"
	"log"
	"strings"

	"gopkg.in/yaml.v2"

	"dstretch-live/pkg/dcolor"
	"dstretch-live/pkg/dmath"
)

// CameraConfig is passed through to the capture device untouched; the
// pipeline itself never interprets it.
type CameraConfig struct {
	Source string // device index ("0"), device path, or a directory of stills
	Width  int
	Height int
	FPS    int
}

type Config struct {
	Verbosity    int

	Decor        float64 // target per-axis stddev in [0,1] color units; 0 disables
	Post         string  // "", "none", "saturate:<s>", "tint:<#hex>"
	Zoom         float64 // center-crop fraction; 0 or 1 means fit-to-frame

	SampleBudget int     // pixels sampled per frame, independent of region size
	RefreshHz    int     // render tick rate

	OutputWidth  int
	OutputHeight int

	Camera       CameraConfig
}

func NewConfig() Config {
	return Config{
		Decor:        0.15,
		SampleBudget: 1000,
		RefreshHz:    30,
		OutputWidth:  1280,
		OutputHeight: 720,
		Camera:       CameraConfig{Source: "0"},
	}
}

func NewConfigFromYamlFile(filename string) (Config, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}
	return newConfigFromYaml(contents)
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// GetPost resolves the post-transform name into a matrix, or nil when
// no post-processing is wanted.
func (c Config)GetPost() (*dmath.Mat4, error) {
	name := c.Post
	switch {
	case name == "" || name == "none":
		return nil, nil

	case strings.HasPrefix(name, "saturate"):
		s := 1.4
		if _, arg, found := strings.Cut(name, ":"); found {
			if _, err := fmt.Sscanf(arg, "%f", &s); err != nil {
				return nil, fmt.Errorf("post '%s': %v", name, err)
			}
		}
		m := dcolor.Saturate(s)
		return &m, nil

	case strings.HasPrefix(name, "tint:"):
		m, err := dcolor.Tint(strings.TrimPrefix(name, "tint:"))
		if err != nil {
			return nil, fmt.Errorf("post '%s': %v", name, err)
		}
		return &m, nil
	}

	return nil, fmt.Errorf("no post transform named '%s'", name)
}

// GetProjection resolves the configured viewport.
func (c Config)GetProjection() Projection {
	if c.Zoom > 0 && c.Zoom < 1 {
		return CenterCrop(c.Zoom)
	}
	return nil // fit-to-frame
}
