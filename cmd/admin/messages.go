package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"m"},
		Short:   "Read and delete contact messages",
	}

	cmd.AddCommand(
		a.messagesListCmd(),
		a.messagesDeleteCmd(),
		a.messagesClearCmd(),
	)
	return cmd
}

func (a *app) messagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contact messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			messages, err := a.client.ListMessages(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFROM\tEMAIL\tRECEIVED\tMESSAGE")
			for _, m := range messages {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Email, m.CreatedAt.Format("2006-01-02 15:04"), m.Message)
			}
			return tw.Flush()
		},
	}
}

func (a *app) messagesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteMessage(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message %d deleted\n", id)
			return nil
		},
	}
}

func (a *app) messagesClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all contact messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all messages without --yes")
			}
			deleted, err := a.client.ClearMessages(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d messages deleted\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting all messages")

	return cmd
}

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <image-file>",
		Short: "Upload a project image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer f.Close()

			url, err := a.client.UploadImage(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
