package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/errors"
)

// importCommand creates the import command, which copies the document
// dataset into MongoDB.
func (c *CLI) importCommand() *cobra.Command {
	var uri, database string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the dataset documents into MongoDB",
		Long: `Copy the dataset documents into MongoDB.

The nodes, edges and applications documents named by the config file (or the
--nodes, --edges and --applications flags) are read and written to the
entities, relations, applications and meta collections, replacing their
contents. Afterwards, set mongo_uri in the [dataset] section to read from
MongoDB.`,
		Example: `  pqcgraph import --to mongodb://localhost:27017 --database pqcgraph`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), uri, database)
		},
	}

	cmd.Flags().StringVar(&uri, "to", "", "MongoDB URI (required)")
	cmd.Flags().StringVar(&database, "database", "", "database name (default from config)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (c *CLI) runImport(ctx context.Context, uri, database string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Dataset.Nodes == "" || cfg.Dataset.Edges == "" {
		return errors.New(errors.ErrCodeInvalidInput, "import needs dataset.nodes and dataset.edges")
	}
	if database == "" {
		database = cfg.Dataset.MongoDatabase
	}

	src := dataset.NewDocumentStore(cfg.Dataset.Locations(), dataset.NewHTTPClient())
	ds, err := dataset.NewLoader(src, cfg.Dataset.Nodes, c.Logger).Load(ctx)
	if err != nil {
		return err
	}
	apps := ds.Applications().Wait(ctx)

	dst, err := dataset.NewMongoStore(ctx, uri, database)
	if err != nil {
		return fmt.Errorf("open mongo: %w", err)
	}
	defer func() { _ = dst.Close(context.Background()) }()

	spinner := newSpinnerWithContext(ctx, "Importing into "+database+"...")
	spinner.Start()
	if err := dst.Import(ctx, ds.Nodes, ds.Edges, apps); err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.Stop()

	printSuccess("Imported dataset into %s", database)
	printKeyValue("Entities", fmt.Sprintf("%d", len(ds.Nodes.Entities)))
	printKeyValue("Relations", fmt.Sprintf("%d", len(ds.Edges.Edges)))
	printKeyValue("Runtimes", fmt.Sprintf("%d", len(apps)))
	return nil
}
