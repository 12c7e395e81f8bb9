package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	GeometryConfig struct {
		LineHeight         float64 `yaml:"line_height" validate:"gt=0"`
		CharWidth          float64 `yaml:"char_width" validate:"gt=0"`
		CodeStart          float64 `yaml:"code_start" validate:"gte=0"`
		LineNumberX        float64 `yaml:"line_number_x" validate:"gte=0"`
		Baseline           float64 `yaml:"baseline" validate:"gte=0"`
		FontSize           int     `yaml:"font_size" validate:"min=6,max=72"`
		LineNumberFontSize int     `yaml:"line_number_font_size" validate:"min=6,max=72"`
		MinWidth           float64 `yaml:"min_width" validate:"gte=0"`
		CodePadding        float64 `yaml:"code_padding" validate:"gte=0"`
	}

	PaletteConfig struct {
		Normal     string `yaml:"normal" validate:"required"`
		LineNumber string `yaml:"line_number" validate:"required"`
		String     string `yaml:"string" validate:"required"`
		Keyword    string `yaml:"keyword" validate:"required"`
		Number     string `yaml:"number" validate:"required"`
		Function   string `yaml:"function" validate:"required"`
		Background string `yaml:"background" validate:"required"`
		Highlight  string `yaml:"highlight" validate:"required"`
		Table      string `yaml:"table" validate:"required"`
	}

	DiagramConfig struct {
		Language       string         `yaml:"language" validate:"required"`
		CallTargets    []string       `yaml:"call_targets" validate:"dive,required"`
		Placeholder    string         `yaml:"placeholder" validate:"required"`
		StylesheetPath string         `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		Geometry       GeometryConfig `yaml:"geometry"`
		Palette        PaletteConfig  `yaml:"palette"`
	}

	LayoutConfig struct {
		DotPath string   `yaml:"dot_path"`
		Args    []string `yaml:"args" validate:"dive,required"`
	}

	PreviewConfig struct {
		Format      PreviewFormat `yaml:"format"`
		Width       int           `yaml:"width" validate:"gte=0"`
		JPEGQuality int           `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
	}

	OutputConfig struct {
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Diagram   DiagramConfig  `yaml:"diagram"`
		Layout    LayoutConfig   `yaml:"layout"`
		Preview   PreviewConfig  `yaml:"preview"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to
// provide sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
