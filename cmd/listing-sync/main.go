// Command listing-sync keeps the tutorial's embedded code listings and the
// per-language example repositories in sync.
//
//	listing-sync export [--check] [--gen-images | --gen-large-images]
//	listing-sync import
//
// export replays the documents' listings as commits into freshly regenerated
// repositories under the export directory; import reads those repositories'
// history back and rewrites the documents' code blocks and highlight ranges,
// after a batch cross-reference integrity check.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"listing-sync/internal/config"
	"listing-sync/internal/export"
	"listing-sync/internal/gitrepo"
	"listing-sync/internal/importer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	contentDir string
	exportDir  string
}

func (rf *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return nil, err
	}
	if rf.contentDir != "" {
		cfg.ContentDir = rf.contentDir
	}
	if rf.exportDir != "" {
		cfg.ExportDir = rf.exportDir
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "listing-sync",
		Short: "Synchronize tutorial code listings with example repositories",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}
	rootCmd.PersistentFlags().StringVar(&rf.configPath, "config", "listing-sync.yaml", "pipeline configuration file")
	rootCmd.PersistentFlags().StringVar(&rf.contentDir, "content", "", "override the content directory")
	rootCmd.PersistentFlags().StringVar(&rf.exportDir, "export-dir", "", "override the export directory")

	var check, genImages, genLargeImages bool
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Replay listings as commits into the per-language repositories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genImages && genLargeImages {
				return fmt.Errorf("--gen-images and --gen-large-images are mutually exclusive")
			}
			cfg, err := rf.load()
			if err != nil {
				return err
			}
			images := export.ImagesNone
			if genImages {
				images = export.ImagesSmall
			}
			if genLargeImages {
				images = export.ImagesLarge
			}
			e := &export.Exporter{
				Cfg:    cfg,
				Runner: gitrepo.ExecRunner{},
				Out:    cmd.OutOrStdout(),
				Check:  check,
				Images: images,
			}
			return e.Run(cmd.Context())
		},
	}
	exportCmd.Flags().BoolVar(&check, "check", false, "compile-check the project after each listing commit")
	exportCmd.Flags().BoolVar(&genImages, "gen-images", false, "build and run flagged listings, capturing small preview images")
	exportCmd.Flags().BoolVar(&genLargeImages, "gen-large-images", false, "like --gen-images at full resolution")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Rewrite the documents from the repositories' commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rf.load()
			if err != nil {
				return err
			}
			im := &importer.Importer{
				Cfg:    cfg,
				Runner: gitrepo.ExecRunner{},
				Out:    cmd.OutOrStdout(),
			}
			return im.Run(cmd.Context())
		},
	}

	rootCmd.AddCommand(exportCmd, importCmd)
	return rootCmd
}
