// Package ticket implements the ticket subcommands of the tracgate CLI.
package ticket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/tracgate/internal/application/trac"
	"github.com/orris-inc/tracgate/internal/domain/attachment"
	domainticket "github.com/orris-inc/tracgate/internal/domain/ticket"
	"github.com/orris-inc/tracgate/internal/infrastructure/config"
	"github.com/orris-inc/tracgate/internal/shared/logger"
	"github.com/orris-inc/tracgate/internal/shared/mapper"
	"github.com/orris-inc/tracgate/internal/shared/services/markdown"
)

// attributeFlags collects the optional ticket attribute flags shared by
// the create and update commands. Empty flags leave the attribute
// unset.
type attributeFlags struct {
	ticketType string
	priority   string
	severity   string
	milestone  string
	component  string
	version    string
	keywords   string
	cc         string
	owner      string
}

func (f *attributeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ticketType, "type", "", "Ticket type")
	cmd.Flags().StringVar(&f.priority, "priority", "", "Priority")
	cmd.Flags().StringVar(&f.severity, "severity", "", "Severity")
	cmd.Flags().StringVar(&f.milestone, "milestone", "", "Milestone")
	cmd.Flags().StringVar(&f.component, "component", "", "Component")
	cmd.Flags().StringVar(&f.version, "version", "", "Version")
	cmd.Flags().StringVar(&f.keywords, "keywords", "", "Keywords")
	cmd.Flags().StringVar(&f.cc, "cc", "", "Cc list")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner")
}

func (f *attributeFlags) apply(t *domainticket.Ticket) error {
	values := map[domainticket.Attribute]string{
		domainticket.AttrType:      f.ticketType,
		domainticket.AttrPriority:  f.priority,
		domainticket.AttrSeverity:  f.severity,
		domainticket.AttrMilestone: f.milestone,
		domainticket.AttrComponent: f.component,
		domainticket.AttrVersion:   f.version,
		domainticket.AttrKeywords:  f.keywords,
		domainticket.AttrCc:        f.cc,
		domainticket.AttrOwner:     f.owner,
	}
	for name, value := range values {
		if value == "" {
			continue
		}
		v := value
		if err := t.SetAttribute(name, &v); err != nil {
			return err
		}
	}
	return nil
}

func NewCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Work with Trac tickets",
		Long:  `Create, inspect, update and delete tickets and their attachments on a Trac instance over XML-RPC.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")

	cmd.AddCommand(
		newCreateCommand(&configPath),
		newGetCommand(&configPath),
		newUpdateCommand(&configPath),
		newAssignCommand(&configPath),
		newCloseCommand(&configPath),
		newDeleteCommand(&configPath),
		newAttachCommand(&configPath),
		newAttachmentsCommand(&configPath),
		newGetAttachmentCommand(&configPath),
		newDeleteAttachmentCommand(&configPath),
	)

	return cmd
}

func newCreateCommand(configPath *string) *cobra.Command {
	var (
		summary     string
		description string
		notify      bool
		attrs       attributeFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			t := domainticket.ForCreation(summary, description)
			if err := attrs.apply(t); err != nil {
				return err
			}

			id, err := client.CreateTicket(context.Background(), t, notify)
			if err != nil {
				return err
			}
			fmt.Printf("created ticket %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "Ticket summary (required)")
	cmd.Flags().StringVar(&description, "description", "", "Ticket description (required)")
	cmd.Flags().BoolVar(&notify, "notify", true, "Send an email notification")
	attrs.register(cmd)
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func newGetCommand(configPath *string) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			t, err := client.GetTicket(context.Background(), id)
			if err != nil {
				return err
			}
			return printTicket(t, asHTML)
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the description as sanitized HTML")
	return cmd
}

func newUpdateCommand(configPath *string) *cobra.Command {
	var (
		summary     string
		description string
		comment     string
		notify      bool
		attrs       attributeFlags
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a ticket's attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			t := domainticket.ForUpdate(id)
			if summary != "" {
				t.Summary = &summary
			}
			if description != "" {
				t.Description = &description
			}
			if err := attrs.apply(t); err != nil {
				return err
			}

			updated, err := client.UpdateTicket(context.Background(), t, comment, notify)
			if err != nil {
				return err
			}
			return printTicket(updated, false)
		},
	}

	cmd.Flags().StringVar(&summary, "summary", "", "New summary")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Change comment")
	cmd.Flags().BoolVar(&notify, "notify", true, "Send an email notification")
	attrs.register(cmd)

	return cmd
}

func newAssignCommand(configPath *string) *cobra.Command {
	var (
		comment string
		notify  bool
	)

	cmd := &cobra.Command{
		Use:   "assign <id> <owner>",
		Short: "Reassign a ticket to a new owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			updated, err := client.AssignTicket(context.Background(), id, args[1], comment, notify)
			if err != nil {
				return err
			}
			return printTicket(updated, false)
		},
	}

	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Change comment")
	cmd.Flags().BoolVar(&notify, "notify", true, "Send an email notification")
	return cmd
}

func newCloseCommand(configPath *string) *cobra.Command {
	var (
		resolution string
		comment    string
		notify     bool
	)

	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			updated, err := client.CloseTicket(context.Background(), id, resolution, comment, notify)
			if err != nil {
				return err
			}
			return printTicket(updated, false)
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "fixed", "Closing resolution")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "Change comment")
	cmd.Flags().BoolVar(&notify, "notify", true, "Send an email notification")
	return cmd
}

func newDeleteCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			ok, err := client.DeleteTicket(context.Background(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("endpoint did not acknowledge deleting ticket %d", id)
			}
			fmt.Printf("deleted ticket %d\n", id)
			return nil
		},
	}
}

func newAttachCommand(configPath *string) *cobra.Command {
	var (
		name        string
		description string
		replace     bool
	)

	cmd := &cobra.Command{
		Use:   "attach <id> <file>...",
		Short: "Attach one or more files to a ticket",
		Long:  `Attach files to a ticket. A single file is uploaded as-is; multiple files are bundled into one zip archive.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			att, err := buildAttachment(args[1:], name, description)
			if err != nil {
				return err
			}

			stored, err := client.AddAttachment(context.Background(), id, att, replace)
			if err != nil {
				return err
			}
			fmt.Printf("attached %s to ticket %d\n", stored, id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "File name to store under (defaults to the file's base name)")
	cmd.Flags().StringVar(&description, "description", "", "Attachment description")
	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite an existing attachment of the same name")

	return cmd
}

func newAttachmentsCommand(configPath *string) *cobra.Command {
	var (
		withContent bool
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "attachments <id>",
		Short: "List a ticket's attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			attachments, err := client.GetAllTicketAttachments(context.Background(), id, withContent)
			if err != nil {
				return err
			}

			if withContent && outputDir != "" {
				for _, att := range attachments {
					target := filepath.Join(outputDir, att.FileName)
					if err := os.WriteFile(target, att.Content.Bytes(), 0o644); err != nil {
						return fmt.Errorf("failed to write %s: %w", target, err)
					}
				}
			}
			return printAttachments(attachments)
		},
	}

	cmd.Flags().BoolVar(&withContent, "with-content", false, "Also fetch each file's content")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write fetched content into")

	return cmd
}

func newGetAttachmentCommand(configPath *string) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "get-attachment <id> <name>",
		Short: "Download one attached file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			data, err := client.GetAttachment(context.Background(), id, args[1])
			if err != nil {
				return err
			}

			target := args[1]
			if outputDir != "" {
				target = filepath.Join(outputDir, args[1])
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			fmt.Printf("wrote %s (%d bytes)\n", target, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the file into")
	return cmd
}

func newDeleteAttachmentCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-attachment <id> <name>",
		Short: "Delete one attached file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := setup(*configPath)
			if err != nil {
				return err
			}

			ok, err := client.DeleteAttachment(context.Background(), id, args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("endpoint did not acknowledge deleting %s", args[1])
			}
			fmt.Printf("deleted %s from ticket %d\n", args[1], id)
			return nil
		},
	}
}

// setup loads configuration, initializes logging and opens the client.
func setup(configPath string) (*trac.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return trac.New(&cfg.Trac, logger.NewLogger())
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket ID %q", arg)
	}
	return id, nil
}

// ticketView is the YAML shape of a ticket for CLI output. Unset
// attributes are omitted rather than printed as empty strings.
type ticketView struct {
	ID          *int       `yaml:"id,omitempty"`
	Summary     *string    `yaml:"summary,omitempty"`
	Description *string    `yaml:"description,omitempty"`
	Reporter    *string    `yaml:"reporter,omitempty"`
	Owner       *string    `yaml:"owner,omitempty"`
	Cc          *string    `yaml:"cc,omitempty"`
	Type        *string    `yaml:"type,omitempty"`
	Status      *string    `yaml:"status,omitempty"`
	Priority    *string    `yaml:"priority,omitempty"`
	Severity    *string    `yaml:"severity,omitempty"`
	Resolution  *string    `yaml:"resolution,omitempty"`
	Milestone   *string    `yaml:"milestone,omitempty"`
	Component   *string    `yaml:"component,omitempty"`
	Version     *string    `yaml:"version,omitempty"`
	Keywords    *string    `yaml:"keywords,omitempty"`
	Time        *time.Time `yaml:"time,omitempty"`
	Changetime  *time.Time `yaml:"changetime,omitempty"`
}

func printTicket(t *domainticket.Ticket, asHTML bool) error {
	view := ticketView{
		ID:          t.ID,
		Summary:     t.Summary,
		Description: t.Description,
		Reporter:    t.Reporter,
		Owner:       t.Owner,
		Cc:          t.Cc,
		Type:        t.Type,
		Status:      t.Status,
		Priority:    t.Priority,
		Severity:    t.Severity,
		Resolution:  t.Resolution,
		Milestone:   t.Milestone,
		Component:   t.Component,
		Version:     t.Version,
		Keywords:    t.Keywords,
		Time:        t.Time,
		Changetime:  t.Changetime,
	}

	if asHTML && t.Description != nil {
		rendered, err := markdown.NewService().ToHTMLSanitized(*t.Description)
		if err != nil {
			return err
		}
		view.Description = &rendered
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

type attachmentView struct {
	FileName    string     `yaml:"file_name"`
	Description string     `yaml:"description,omitempty"`
	Size        int        `yaml:"size"`
	Author      string     `yaml:"author,omitempty"`
	Time        *time.Time `yaml:"time,omitempty"`
}

func printAttachments(attachments []*attachment.Attachment) error {
	views := mapper.MapSlice(attachments, func(att *attachment.Attachment) attachmentView {
		return attachmentView{
			FileName:    att.FileName,
			Description: att.Description,
			Size:        att.Size,
			Author:      att.Author,
			Time:        att.Time,
		}
	})

	out, err := yaml.Marshal(views)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

// buildAttachment turns the file arguments into upload content: one
// file passes through as bytes, several are bundled into a zip archive.
func buildAttachment(paths []string, name, description string) (*attachment.Attachment, error) {
	if len(paths) == 1 {
		data, err := os.ReadFile(paths[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", paths[0], err)
		}
		if name == "" {
			name = filepath.Base(paths[0])
		}
		return attachment.New(name, description, attachment.BytesContent(data)), nil
	}

	files := make([]attachment.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, attachment.File{Name: filepath.Base(path), Data: data})
	}

	if name == "" {
		name = "attachments.zip"
	}
	return attachment.New(name, description, attachment.FilesContent(files...)), nil
}
