package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/patrickprogramme/medialink/internal/app"
	"github.com/patrickprogramme/medialink/internal/assets"
	"github.com/patrickprogramme/medialink/internal/bootstrap"
	"github.com/patrickprogramme/medialink/internal/config"
	"github.com/patrickprogramme/medialink/internal/render"
	"github.com/patrickprogramme/medialink/internal/ui"
)

func newRootCmd() *cobra.Command {
	flags := app.DefaultFlags()

	root := &cobra.Command{
		Use:           "medialink",
		Short:         "Liens de lecture média dans du texte enrichi",
		Long:          `Convertit les time-codes (00:01:05) d'un document en liens vers une position de lecture.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", config.DefaultFileName, "path to config file")
	root.PersistentFlags().BoolVar(&flags.Auto, "auto", false, "exécution automatique sans interaction")

	root.AddCommand(
		newTimecodeCmd(),
		newLinkCmd(flags),
		newBracketsCmd(flags),
		newTranscriptCmd(flags),
		newWatchCmd(flags),
		newInitConfigCmd(flags),
		newBlocksCmd(flags),
	)
	return root
}

// addDocumentFlags déclare les flags communs aux commandes qui lisent un document.
func addDocumentFlags(cmd *cobra.Command, flags *app.CLIFlags) {
	cmd.Flags().StringVarP(&flags.In, "in", "i", "", `fichier d'entrée ("-" = stdin, vide = presse-papier)`)
	cmd.Flags().StringVarP(&flags.Out, "out", "o", "", `fichier ou dossier de sortie ("-" ou vide = stdout)`)
	cmd.Flags().StringVar(&flags.InFormat, "in-format", "", "format d'entrée (html, md, txt)")
	cmd.Flags().StringVarP(&flags.OutFormat, "format", "f", "", "format de sortie (html, md, txt)")
	cmd.Flags().BoolVar(&flags.Wrap, "wrap", false, "envelopper le résultat dans un document complet")
	cmd.Flags().StringVar(&flags.Title, "title", "", "titre du document")
	cmd.Flags().BoolVar(&flags.Clipboard, "copy", false, "copier le résultat dans le presse-papier")
}

func newTimecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timecode <secondes|hh:mm:ss>",
		Short: "Convertit des secondes en time-code et inversement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.ConvertTimecode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newLinkCmd(flags *app.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Pose un lien de lecture sur les time-codes du document",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			return a.Link(cmd.Context())
		},
	}
	addDocumentFlags(cmd, flags)
	cmd.Flags().IntVar(&flags.From, "from", app.NoSelection, "début de la sélection (en caractères)")
	cmd.Flags().IntVar(&flags.To, "to", app.NoSelection, "fin de la sélection (en caractères)")
	cmd.Flags().Float64Var(&flags.At, "at", -1, "position du lecteur en secondes (défaut : config)")
	return cmd
}

func newBracketsCmd(flags *app.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brackets",
		Short: `Convertit la saisie "[hh:mm:ss]" en liens de lecture`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			return a.Brackets(cmd.Context())
		},
	}
	addDocumentFlags(cmd, flags)
	return cmd
}

func newTranscriptCmd(flags *app.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Transforme une piste de sous-titres json3 en transcript lié",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			return a.Transcript(cmd.Context())
		},
	}
	addDocumentFlags(cmd, flags)
	return cmd
}

func newWatchCmd(flags *app.CLIFlags) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convertit chaque texte copié dans le presse-papier",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context(), interval)
		},
	}
	cmd.Flags().StringVarP(&flags.OutFormat, "format", "f", "", "format de sortie (html, md, txt)")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "intervalle de lecture du presse-papier")
	return cmd
}

func newInitConfigCmd(flags *app.CLIFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Crée la configuration et les templates à côté du binaire",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(flags.ConfigPath)
			a, err := app.New(config.Default(), ui.NewTerminal(), flags, nil)
			if err != nil {
				return err
			}
			return a.InitConfig(cmd.Context(), path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "réécrire les templates modifiés (avec sauvegarde)")
	return cmd
}

func newBlocksCmd(flags *app.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "Liste les blocs et formats enregistrés",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			return a.Blocks(cmd.Context())
		},
	}
}

// binDir retourne le dossier de l'exécutable ("." si inconnu).
func binDir() (string, string) {
	exePath, err := os.Executable()
	if err != nil {
		log.Printf("impossible de déterminer le chemin de l'executable: %v", err)
		return ".", ""
	}
	return filepath.Dir(exePath), exePath
}

// configPath : emplacement config par défaut à côté du binaire.
func configPath(p string) string {
	if p == config.DefaultFileName || p == "" {
		dir, _ := binDir()
		return filepath.Join(dir, config.DefaultFileName)
	}
	return p
}

// setup charge la configuration et construit l'application.
func setup(flags *app.CLIFlags) (*app.App, error) {
	dir, exePath := binDir()
	flags.ConfigPath = configPath(flags.ConfigPath)

	// s'assurer que les templates existent (dans binDir/templates)
	if err := bootstrap.EnsureTemplatesPresent(
		filepath.Join(dir, "templates"),
		assets.Embedded,
		assets.DefaultTemplatePaths,
	); err != nil {
		log.Printf("warning: ensure templates present: %v", err)
	}

	// config.Load crée le fichier depuis l'exemple embarqué s'il manque
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	// appliquer le flag --auto par-dessus la config
	if flags.Auto {
		cfg.AutoMode = true
	}

	var renderer *render.Renderer
	if exePath != "" {
		renderer, err = render.DefaultRenderer(exePath)
	} else {
		renderer, err = render.EmbeddedRenderer()
	}
	if err != nil {
		return nil, fmt.Errorf("impossible de construire le renderer: %w", err)
	}

	return app.New(cfg, ui.NewTerminal(), flags, renderer)
}
