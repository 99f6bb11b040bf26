// Command kith is a management CLI for inspecting and seeding a ledger
// directly, bypassing the CardDAV surface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kithhq/kith/pkg/fact"
	"github.com/kithhq/kith/pkg/ledger"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "kith",
	Short: "Inspect and manage a kith fact ledger",
}

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Manage subjects",
}

var subjectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		subj, err := store.AddSubject(context.Background(), fact.Kind(kind))
		if err != nil {
			return fmt.Errorf("add subject: %w", err)
		}
		fmt.Println(subj.ID)
		return nil
	},
}

var subjectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all subjects",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		subjects, err := store.ListSubjects(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("list subjects: %w", err)
		}
		for _, s := range subjects {
			fmt.Printf("%s\t%s\t%s (%s)\n", s.ID, s.Kind, s.CreatedAt.Format(time.RFC3339), humanize.Time(s.CreatedAt))
		}
		return nil
	},
}

var factsCmd = &cobra.Command{
	Use:   "facts <subject-id>",
	Short: "Show the resolved facts for a subject",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subject id: %w", err)
		}
		includeInactive, _ := cmd.Flags().GetBool("all")
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		resolved, err := store.GetFacts(context.Background(), id, nil, includeInactive)
		if err != nil {
			return fmt.Errorf("get facts: %w", err)
		}

		if asJSON {
			data, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		for _, rf := range resolved {
			fmt.Printf("%s\t%s\t%s\t%v\n", rf.Fact.ID, rf.Fact.Value.Discriminant(), rf.Status, rf.Fact.Value)
		}
		return nil
	},
}

var materializeCmd = &cobra.Command{
	Use:   "materialize <subject-id>",
	Short: "Print the active-facts view for a subject as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid subject id: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		view, err := store.Materialize(context.Background(), id, nil)
		if err != nil {
			return fmt.Errorf("materialize: %w", err)
		}
		if view == nil {
			return fmt.Errorf("no such subject: %s", id)
		}

		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search subjects by fact content",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _ := cmd.Flags().GetString("text")
		kindFlag, _ := cmd.Flags().GetString("kind")

		q := ledger.FactQuery{Text: text}
		if kindFlag != "" {
			k := fact.Kind(kindFlag)
			q.Kind = &k
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		subjects, err := store.Search(context.Background(), q)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		for _, s := range subjects {
			fmt.Printf("%s\t%s\n", s.ID, s.Kind)
		}
		return nil
	},
}

func openStore() (*ledger.SQLiteStore, error) {
	store, err := ledger.Open(context.Background(), dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger at %s: %w", dbPath, err)
	}
	return store, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "kith.db", "ledger database path")

	subjectAddCmd.Flags().String("kind", string(fact.KindPerson), "subject kind (person/organization/group)")
	subjectCmd.AddCommand(subjectAddCmd, subjectListCmd)

	factsCmd.Flags().Bool("all", false, "include superseded and retracted facts")
	factsCmd.Flags().Bool("json", false, "output as JSON")

	searchCmd.Flags().String("text", "", "substring to match against fact values")
	searchCmd.Flags().String("kind", "", "restrict to a subject kind")

	rootCmd.AddCommand(subjectCmd, factsCmd, materializeCmd, searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
