package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/medialink/internal/assets"
	"github.com/patrickprogramme/medialink/internal/fsutil"
	"gopkg.in/yaml.v3"
)

const CurrentConfigVersion = 2

// DefaultFileName est le nom du fichier de configuration à côté du binaire.
const DefaultFileName = "medialink.yaml"

// struct pour les paramètres de configuration
type Config struct {
	// Chemins
	OutputDir string `yaml:"output_dir"`

	// Formats
	InputFormat  string `yaml:"input_format" validate:"omitempty,oneof=html md txt"`
	OutputFormat string `yaml:"output_format" validate:"required,oneof=html md txt"`

	// Rendu
	Locale       string `yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	WrapDocument bool   `yaml:"wrap_document"`
	Title        string `yaml:"title"`

	// Conversion
	BracketShorthand bool `yaml:"bracket_shorthand"`
	LinkAll          bool `yaml:"link_all"`

	// Mode automatique : pas de confirmation avant une conversion multiple
	AutoMode bool `yaml:"auto_mode"`

	// Presse-papier
	CopyToClipboard bool `yaml:"copy_to_clipboard"`

	// Lecteur : position utilisée quand aucun time-code n'est sélectionné
	Player struct {
		StartPosition float64 `yaml:"start_position" validate:"gte=0"`
		Duration      float64 `yaml:"duration" validate:"gte=0"`
	} `yaml:"player"`

	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	// Chemins
	c.OutputDir = "."

	// Formats
	c.InputFormat = ""
	c.OutputFormat = "html"

	// Rendu
	c.Locale = "en"
	c.WrapDocument = false
	c.Title = ""

	// Conversion
	c.BracketShorthand = true
	c.LinkAll = true

	// Mode automatique
	c.AutoMode = false

	c.CopyToClipboard = false

	c.Player.StartPosition = 0
	c.Player.Duration = 0

	c.LogLevel = "warn"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut, sans fichier.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	// si le fichier n'existe pas -> essayer de créer à partir de l'asset embarqué
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := createDefaultConfigFromEmbedded(path); err != nil {
			return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
		}
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// On déserialise dans cfg initialisé : les champs absents conservent les valeurs par défaut.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	cfg.normalizeConfig()

	// gestion de version : si le fichier est plus ancien -> orchestrer la mise à jour
	if cfg.ConfigVersion < CurrentConfigVersion {
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		cfg.normalizeConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration %s invalide : %w", path, err)
	}

	return cfg, nil
}

// Path retourne le chemin du fichier chargé (vide pour Default()).
func (c *Config) Path() string {
	return c.configFilePath
}

func createDefaultConfigFromEmbedded(dstPath string) error {
	b, err := assets.Embedded.ReadFile(assets.DefaultConfigAsset)
	if err != nil {
		return fmt.Errorf("lecture du modèle de configuration embarqué impossible : %w", err)
	}

	// écrire atomiquement sur disque (évite les fichiers partiels)
	if err := fsutil.WriteFileAtomic(dstPath, b, 0o644); err != nil {
		return fmt.Errorf("échec d'écriture du fichier de configuration %s : %w", dstPath, err)
	}
	return nil
}

func (c *Config) normalizeConfig() {
	c.OutputDir = filepath.Clean(c.OutputDir)

	c.InputFormat = normalizeFormat(c.InputFormat)
	c.OutputFormat = normalizeFormat(c.OutputFormat)
	if c.OutputFormat == "" {
		c.OutputFormat = "html"
	}

	c.Locale = strings.TrimSpace(c.Locale)
	c.Title = strings.TrimSpace(c.Title)

	c.LogLevel = strings.TrimSpace(strings.ToLower(c.LogLevel))
	if c.LogLevel == "" || c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
}

// normalizeFormat ramène les alias ("markdown", "HTML") aux noms courts.
func normalizeFormat(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "markdown":
		return "md"
	case "htm":
		return "html"
	case "text":
		return "txt"
	}
	return s
}
