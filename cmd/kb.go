package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/vendorguard/helpassist/internal/config"
	"github.com/vendorguard/helpassist/internal/db"
	"github.com/vendorguard/helpassist/internal/knowledge"
	"github.com/vendorguard/helpassist/internal/seed"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the help assistant knowledge base",
	Long:  `List, add, deactivate, delete and seed the topic entries the assistant answers from.`,
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topic entries",
	RunE:  runKBList,
}

var kbAddCmd = &cobra.Command{
	Use:   "add <topic>",
	Short: "Add a topic entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBAdd,
}

var kbDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Exclude an entry from resolution without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBDeactivate,
}

var kbActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Re-include a deactivated entry in resolution",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBActivate,
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Permanently delete an entry (prompts for confirmation)",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBDelete,
}

var kbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter knowledge base into an empty store",
	RunE:  runKBSeed,
}

var kbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate knowledge base statistics",
	RunE:  runKBStats,
}

func init() {
	kbListCmd.Flags().String("context", "", "filter by context (vendor-onboarding, assessment, general)")
	kbListCmd.Flags().String("search", "", "substring search over topic and response text")

	kbAddCmd.Flags().String("context", "general", "context the entry belongs to")
	kbAddCmd.Flags().String("keywords", "", "comma-separated keywords")
	kbAddCmd.Flags().String("response", "", "response text (required)")
	kbAddCmd.Flags().String("suggestions", "", "comma-separated follow-up suggestions")
	kbAddCmd.Flags().Bool("default", false, "flag the entry as the context default (no keywords)")

	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbDeactivateCmd)
	kbCmd.AddCommand(kbActivateCmd)
	kbCmd.AddCommand(kbDeleteCmd)
	kbCmd.AddCommand(kbSeedCmd)
	kbCmd.AddCommand(kbStatsCmd)
	rootCmd.AddCommand(kbCmd)
}

func openStore() (*knowledge.Store, *db.DB, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "helpassist.db"))
	if err != nil {
		return nil, nil, err
	}
	return knowledge.NewStore(database), database, nil
}

func runKBList(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	hcFlag, _ := cmd.Flags().GetString("context")
	search, _ := cmd.Flags().GetString("search")

	var entries []knowledge.TopicEntry
	if search != "" {
		entries, err = store.Search(context.Background(), search, knowledge.HelpContext(hcFlag))
	} else {
		entries, err = store.List(context.Background(), knowledge.HelpContext(hcFlag))
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTEXT\tTOPIC\tKEYWORDS\tACTIVE\tDEFAULT\tUSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%t\t%d\n",
			e.ID, e.Context, e.Topic, strings.Join(e.Keywords, ","), e.Active, e.IsDefault, e.UsageCount)
	}
	return w.Flush()
}

func runKBAdd(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	hcFlag, _ := cmd.Flags().GetString("context")
	keywords, _ := cmd.Flags().GetString("keywords")
	response, _ := cmd.Flags().GetString("response")
	suggestions, _ := cmd.Flags().GetString("suggestions")
	isDefault, _ := cmd.Flags().GetBool("default")

	hc, err := knowledge.ParseContext(hcFlag)
	if err != nil {
		return err
	}

	entry := knowledge.TopicEntry{
		Context:      hc,
		Topic:        args[0],
		Keywords:     splitAndTrim(keywords),
		ResponseText: response,
		Suggestions:  splitAndTrim(suggestions),
		IsDefault:    isDefault,
	}

	created, err := store.Create(context.Background(), entry)
	if err != nil {
		return err
	}
	fmt.Printf("Created entry %s (%s / %s)\n", created.ID, created.Context, created.Topic)
	return nil
}

func runKBDeactivate(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.Deactivate(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deactivated %s\n", args[0])
	return nil
}

func runKBActivate(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := store.Activate(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Activated %s\n", args[0])
	return nil
}

func runKBDelete(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	entry, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	// Hard delete loses the usage history; make the admin say so.
	confirm := promptui.Prompt{
		Label:     fmt.Sprintf("Permanently delete %q (%s)? This cannot be undone", entry.Topic, entry.Context),
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		fmt.Println("Aborted. Consider 'kb deactivate' to keep the entry for audit.")
		return nil
	}

	if err := store.Delete(context.Background(), entry.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", entry.ID)
	return nil
}

func runKBSeed(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := seed.Load(context.Background(), store)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("Store already has entries; nothing seeded.")
		return nil
	}
	fmt.Printf("Seeded %d entries\n", n)
	return nil
}

func runKBStats(cmd *cobra.Command, args []string) error {
	store, database, err := openStore()
	if err != nil {
		return err
	}
	defer database.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Entries: %d total, %d active\n", stats.TotalEntries, stats.ActiveEntries)
	for _, hc := range knowledge.Contexts() {
		cs := stats.BreakdownByContext[hc]
		fmt.Printf("  %-18s %d total, %d active\n", hc, cs.Total, cs.Active)
	}
	if len(stats.TopEntriesByUsage) > 0 {
		fmt.Println("Top entries by usage:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, u := range stats.TopEntriesByUsage {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d\n", u.ID, u.Context, u.Topic, u.UsageCount)
		}
		w.Flush()
	}
	return nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
