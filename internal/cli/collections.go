package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"legalrag/internal/usecase"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Administer vector store collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all collections",
	RunE:  runCollectionsList,
}

var collectionsStatsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show a bounded-sample diagnostic for a collection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollectionsStats,
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a collection and its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionsDelete,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsStatsCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)
}

// Administrative failures are reported, not propagated: the command prints
// the problem and still exits zero.

func runCollectionsList(cmd *cobra.Command, args []string) error {
	store, err := newStore(GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.ListCollections(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing collections: %v\n", err)
		return nil
	}

	if len(names) == 0 {
		fmt.Println("No collections.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runCollectionsStats(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	name := cfg.Chroma.Collection
	if len(args) > 0 {
		name = args[0]
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	col, err := store.GetOrCreateCollection(context.Background(), name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening collection %s: %v\n", name, err)
		return nil
	}

	stats, err := usecase.CollectionStats(context.Background(), col)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting stats for %s: %v\n", name, err)
		return nil
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	store, err := newStore(GetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	name := args[0]
	if err := store.DeleteCollection(context.Background(), name); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting collection %s: %v\n", name, err)
		return nil
	}

	fmt.Printf("Deleted collection: %s\n", name)
	return nil
}
