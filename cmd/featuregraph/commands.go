package main

import (
	"os/signal"
	"syscall"

	"github.com/siherrmann/featuregraph"
	"github.com/siherrmann/featuregraph/core/search"
	"github.com/siherrmann/featuregraph/helper"
	"github.com/siherrmann/featuregraph/model"
	"github.com/siherrmann/featuregraph/server"
	"github.com/spf13/cobra"
)

func (a *app) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the laid-out lineage graph as JSON",
		Long: `Print the laid-out lineage graph as JSON.

With --type and --name only the lineage of that object is printed,
with --hops additionally only its neighborhood.

Examples:
  featuregraph graph -r registry.yaml
  featuregraph graph -r registry.yaml --direction TB
  featuregraph graph -r registry.yaml --type featureView --name driver_hourly_stats
  featuregraph graph -r registry.yaml --type entity --name driver --hops 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			direction, err := a.direction(cmd)
			if err != nil {
				return err
			}

			typeFlag, _ := cmd.Flags().GetString("type")
			name, _ := cmd.Flags().GetString("name")
			if typeFlag == "" && name == "" {
				built, err := f.Graph(direction)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), built)
			}

			objectType, err := model.ParseObjectType(typeFlag)
			if err != nil {
				return err
			}
			ref := model.ObjectRef{Type: objectType, Name: name}

			var filtered *model.Graph
			if cmd.Flags().Changed("hops") {
				hops, _ := cmd.Flags().GetInt("hops")
				filtered, err = f.Neighborhood(ref, hops, direction)
			} else {
				filtered, err = f.FilteredGraph(ref, direction)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), filtered)
		},
	}

	cmd.Flags().String("direction", "", "layout direction, LR or TB")
	cmd.Flags().String("type", "", "object type to filter by")
	cmd.Flags().String("name", "", "object name to filter by")
	cmd.Flags().Int("hops", -1, "neighborhood size instead of the full lineage")
	cmd.MarkFlagsRequiredTogether("type", "name")

	return cmd
}

func (a *app) newRelationshipsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relationships",
		Short: "Print the relationships inferred from the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			relationships, err := f.Relationships()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), relationships)
		},
	}
}

func (a *app) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search registry objects by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			groups, err := f.Search(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), groups)
		},
	}
}

func (a *app) newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags <collection> [text]",
		Short: "Suggest tag keys or values for featureViews or featureServices",
		Long: `Suggest tag keys or values while typing a tag query.

Examples:
  featuregraph tags featureViews
  featuregraph tags featureViews "env:"
  featuregraph tags feature-services "stage:pr team:risk" --cursor 8`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			collection, err := featuregraph.ParseCollection(args[0])
			if err != nil {
				return err
			}

			input := search.TagInput{}
			if len(args) == 2 {
				input.Text = args[1]
			}
			input.Cursor = len(input.Text)
			if cmd.Flags().Changed("cursor") {
				input.Cursor, _ = cmd.Flags().GetInt("cursor")
			}

			view, err := f.TagSuggestions(collection, input)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().Int("cursor", 0, "cursor position in the text (default: end of text)")

	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the object counts of the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), f.Stats())
		},
	}
}

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the JSON API until interrupted.

With --store the graph snapshot endpoints use the Postgres database configured
through the FEATUREGRAPH_DB_* variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			defer f.Close()

			if store, _ := cmd.Flags().GetBool("store"); store {
				if err := a.useStore(f); err != nil {
					return err
				}
			}

			addr := a.cfg.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.NewServer(server.Config{
				Featuregraph: f,
				Addr:         addr,
				Logger:       a.logger,
			}).Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Bool("store", false, "connect the snapshot store")

	return cmd
}

func (a *app) newPersistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "persist",
		Short: "Store the laid-out graph as a snapshot in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.featuregraph()
			if err != nil {
				return err
			}
			defer f.Close()

			direction, err := a.direction(cmd)
			if err != nil {
				return err
			}
			if err := a.useStore(f); err != nil {
				return err
			}

			snapshot, err := f.Persist(cmd.Context(), direction)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"rid":       snapshot.RID,
				"project":   snapshot.Project,
				"direction": snapshot.Direction,
				"nodes":     len(snapshot.Graph.Nodes),
				"edges":     len(snapshot.Graph.Edges),
			})
		},
	}

	cmd.Flags().String("direction", "", "layout direction, LR or TB")

	return cmd
}

func (a *app) useStore(f *featuregraph.Featuregraph) error {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return err
	}
	return f.UseStore(helper.NewDatabase("featuregraph", dbConfig, a.logger), false)
}
