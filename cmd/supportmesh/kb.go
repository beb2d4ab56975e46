package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/protocol"
)

// kbFile is the layout accepted by "kb import".
type kbFile struct {
	Entries []core.KnowledgeEntry `yaml:"entries"`
}

func (c *cli) kbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage knowledge base entries",
	}
	cmd.AddCommand(c.kbAddCmd(), c.kbListCmd(), c.kbImportCmd())
	return cmd
}

func (c *cli) kbAddCmd() *cobra.Command {
	var (
		entry core.KnowledgeEntry
		tags  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one knowledge base entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, err := c.mesh(cmd)
			if err != nil {
				return err
			}
			defer mesh.Close()

			entry.Tags = protocol.SplitList(tags)
			id, err := mesh.AddKnowledgeEntry(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added entry %d\n", id)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&entry.Title, "title", "", "entry title")
	f.StringVar(&entry.Content, "content", "", "entry content (the solution text)")
	f.StringVar(&entry.Category, "category", "", "entry category")
	f.StringVar(&tags, "tags", "", "comma separated tags")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func (c *cli) kbListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge base entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, err := c.mesh(cmd)
			if err != nil {
				return err
			}
			defer mesh.Close()

			entries, err := mesh.KnowledgeBaseEntries(cmd.Context(), category)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list entries of this category")
	return cmd
}

func (c *cli) kbImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import knowledge base entries from a YAML file",
		Long: `Import entries from a YAML file of the form:

  entries:
    - title: Password reset
      content: Use the 'Forgot password' link on the login page.
      category: Account Related
      tags: [login, password]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readKnowledgeFile(args[0])
			if err != nil {
				return err
			}

			mesh, err := c.mesh(cmd)
			if err != nil {
				return err
			}
			defer mesh.Close()

			for i, e := range entries {
				if _, err := mesh.AddKnowledgeEntry(cmd.Context(), e); err != nil {
					return fmt.Errorf("entry %d (%s): %w", i+1, e.Title, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries\n", len(entries))
			return nil
		},
	}
}

func readKnowledgeFile(path string) ([]core.KnowledgeEntry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f kbFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, e := range f.Entries {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("parse %s: entry %d has no title", path, i+1)
		}
	}
	return f.Entries, nil
}
