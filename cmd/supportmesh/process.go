package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/agent"
	"github.com/hupe1980/supportmesh/core"
)

func (c *cli) processCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Classify a ticket, look up a solution, draft a reply and save it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mesh, err := c.mesh(cmd)
			if err != nil {
				return err
			}
			defer mesh.Close()

			res, err := mesh.ProcessTicket(cmd.Context(), title, description)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "ticket title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "ticket description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		ticketID int64
		in       agent.Input
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run priority, semantics, intent, solution and automation analysis",
		Long: `Analyze a stored ticket (--ticket) or ad-hoc text (--title/--description).
The five agents run concurrently under the configured batch timeout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ticketID == 0 && (in.Title == "" || in.Description == "") {
				return errors.New("either --ticket or both --title and --description are required")
			}

			mesh, err := c.mesh(cmd)
			if err != nil {
				return err
			}
			defer mesh.Close()

			var a *supportmesh.Analysis
			if ticketID != 0 {
				a, err = mesh.AnalyzeTicket(cmd.Context(), ticketID)
			} else {
				a, err = mesh.Analyze(cmd.Context(), in)
			}
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			out := make(map[string]map[string]any, 5)
			for _, resp := range a.Responses() {
				out[resp.AgentName()] = responseView(resp)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&ticketID, "ticket", 0, "id of a stored ticket")
	f.StringVarP(&in.Title, "title", "t", "", "ticket title")
	f.StringVarP(&in.Description, "description", "d", "", "ticket description")
	f.StringVar(&in.Category, "category", "", "known ticket category")
	f.IntVar(&in.Priority, "priority", 0, "known ticket priority (1-4)")
	f.StringVar(&in.KnowledgeSolution, "solution", "", "knowledge base solution to consider")
	return cmd
}

// responseView is the printable form of an envelope.
func responseView(resp core.AgentResponse) map[string]any {
	msg := resp.Message()
	msg["execution_time"] = resp.ExecutionTime().String()
	return msg
}
