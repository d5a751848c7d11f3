// Command flowctl inspects and drives a document's approval workflow from
// the terminal: resolve the current position, list annotated actions, and
// execute one against the backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/application/service"
	"github.com/officedrive/approvalflow/internal/domain/approval"
	"github.com/officedrive/approvalflow/internal/domain/entity"
	"github.com/officedrive/approvalflow/internal/infrastructure/external/backend"
	"github.com/officedrive/approvalflow/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "flowctl",
	Short: "Approval workflow inspector",
	Long: `flowctl resolves a document's position inside its approval workflow,
shows which stage actions are currently available and why the rest are
disabled, and can execute an action against the backend.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	_ = gotenv.Load()
	viper.SetEnvPrefix("APPROVALFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.String("backend-url", "", "document service base URL")
	flags.String("token", "", "bearer token for the document service")
	flags.Duration("timeout", 15*time.Second, "request timeout")
	flags.String("document", "", "path to document JSON")
	flags.String("workflow", "", "path to workflow JSON")
	flags.String("actor", "", "path to actor JSON")
	viper.BindPFlag("backend-url", flags.Lookup("backend-url"))
	viper.BindPFlag("token", flags.Lookup("token"))
	viper.BindPFlag("timeout", flags.Lookup("timeout"))
	viper.BindPFlag("document", flags.Lookup("document"))
	viper.BindPFlag("workflow", flags.Lookup("workflow"))
	viper.BindPFlag("actor", flags.Lookup("actor"))
}

func registerCommands() {
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(executeCmd())
	rootCmd.AddCommand(lookupCmd())
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Resolve document position and list annotated actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := buildSession()
			if err != nil {
				return err
			}
			snap := session.Snapshot()
			printState(snap)
			printActions(snap.Actions())
			return nil
		},
	}
}

func executeCmd() *cobra.Command {
	var message string
	var confirm bool
	cmd := &cobra.Command{
		Use:   "execute <action-id>",
		Short: "Execute a stage action against the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid action id %q", args[0])
			}
			session, transitions, err := buildSession()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
			defer cancel()

			snap := session.Snapshot()
			for _, aa := range snap.Actions() {
				if aa.Action.ID == actionID && aa.Action.RequiresUpdateFlow() {
					return transitions.SubmitInput(ctx, actionID, message)
				}
			}
			return transitions.ExecuteDirect(ctx, actionID, service.ExecuteOptions{
				Confirmed: confirm,
				Message:   message,
			})
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "message to attach to the action")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm a direct action")
	return cmd
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <reference>",
		Short: "Fetch a document by reference (parent attach flow)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
			defer cancel()
			doc, err := client.FetchDocumentByRef(ctx, args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func buildClient() (*backend.Client, error) {
	baseURL := viper.GetString("backend-url")
	if baseURL == "" {
		return nil, fmt.Errorf("backend URL required (--backend-url or APPROVALFLOW_BACKEND_URL)")
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", Format: "console"})
	if err != nil {
		return nil, err
	}
	return backend.NewClient(backend.Config{
		BaseURL:     baseURL,
		BearerToken: viper.GetString("token"),
		Timeout:     viper.GetDuration("timeout"),
	}, logger), nil
}

func buildSession() (service.SessionService, service.TransitionService, error) {
	var doc entity.Document
	var wf entity.Workflow
	var actor entity.Actor
	if err := readJSON(viper.GetString("document"), &doc); err != nil {
		return nil, nil, fmt.Errorf("--document: %w", err)
	}
	if err := readJSON(viper.GetString("workflow"), &wf); err != nil {
		return nil, nil, fmt.Errorf("--workflow: %w", err)
	}
	if err := readJSON(viper.GetString("actor"), &actor); err != nil {
		return nil, nil, fmt.Errorf("--actor: %w", err)
	}

	client, err := buildClient()
	if err != nil {
		return nil, nil, err
	}
	logger := zap.NewNop()
	session := service.NewSessionService(logger)
	session.LoadDocument(&doc, &wf, &actor)
	transitions := service.NewTransitionService(session, client, service.DefaultComponentRegistry(), logger)
	return session, transitions, nil
}

func readJSON(path string, out any) error {
	if path == "" {
		return fmt.Errorf("path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func printState(snap service.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"ready", snap.Resolution.Ready()})
	if d := snap.Resolution.CurrentDraft; d != nil {
		t.AppendRow(table.Row{"current draft", fmt.Sprintf("%d (%s/%s)", d.ID, d.Type, d.Status)})
	}
	if tr := snap.Resolution.CurrentTracker; tr != nil {
		t.AppendRow(table.Row{"current tracker", fmt.Sprintf("%d (order %d, %s)", tr.ID, tr.Order, tr.Stage.Name)})
	}
	if next := snap.Resolution.NextTracker; next != nil {
		t.AppendRow(table.Row{"next tracker", fmt.Sprintf("%d (order %d)", next.ID, next.Order)})
	} else {
		t.AppendRow(table.Row{"next tracker", "terminal stage"})
	}
	t.AppendRow(table.Row{"access", fmt.Sprintf("%v (%s)", snap.Verdict.Allowed, snap.Verdict.Reason)})
	t.AppendRow(table.Row{"needs signature", snap.NeedsSignature()})
	t.AppendRow(table.Row{"signature satisfied", snap.SignatureSatisfied()})
	t.Render()
}

func printActions(actions []approval.AnnotatedAction) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Name", "Input Flow", "Disabled", "Reason"})
	for _, aa := range actions {
		t.AppendRow(table.Row{
			aa.Action.ID,
			aa.Action.Name,
			aa.Action.RequiresUpdateFlow(),
			aa.Disabled,
			string(aa.Reason),
		})
	}
	t.Render()
}
