package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/2beens/portfolio/internal/adminclient"
	"github.com/2beens/portfolio/internal/project"

	"github.com/spf13/cobra"
)

func (a *app) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"p"},
		Short:   "List and manage portfolio projects",
	}

	cmd.AddCommand(
		a.projectsListCmd(),
		a.projectsAddCmd(),
		a.projectsUpdateCmd(),
		a.projectsDeleteCmd(),
	)
	return cmd
}

func (a *app) projectsListCmd() *cobra.Command {
	var params adminclient.ListProjectsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := a.client.ListProjects(cmd.Context(), params)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tTECH\tCREATED")
			for _, p := range projects {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Tech, p.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&params.Query, "query", "q", "", "search in title, description and tech")
	cmd.Flags().StringVarP(&params.Tech, "tech", "t", "", "only projects with this tech tag")
	cmd.Flags().StringVarP(&params.Sort, "sort", "s", "", "sort order: new | az")

	return cmd
}

func projectInputFlags(cmd *cobra.Command, input *project.Input) {
	cmd.Flags().StringVar(&input.Title, "title", "", "project title")
	cmd.Flags().StringVar(&input.Description, "description", "", "project description")
	cmd.Flags().StringVar(&input.Tech, "tech", "", "comma separated tech tags")
	cmd.Flags().StringVar(&input.Github, "github", "", "github link")
	cmd.Flags().StringVar(&input.Image, "image", "", "image URL (see: admin upload)")
	cmd.Flags().StringVar(&input.Demo, "demo", "", "live demo link")
}

func (a *app) projectsAddCmd() *cobra.Command {
	var input project.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			added, err := a.client.AddProject(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d added: %s\n", added.ID, added.Title)
			return nil
		},
	}
	projectInputFlags(cmd, &input)

	return cmd
}

func (a *app) projectsUpdateCmd() *cobra.Command {
	var input project.Input

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Long:  "Update the fields given as flags, the rest keep their value. Pass an empty value to clear a link, e.g. --demo \"\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := projectPatch(cmd, input)
			if patch == (project.Patch{}) {
				return errors.New("nothing to update, set at least one field flag")
			}
			updated, err := a.client.UpdateProject(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d updated: %s\n", updated.ID, updated.Title)
			return nil
		},
	}
	projectInputFlags(cmd, &input)

	return cmd
}

// projectPatch keeps only the flags set on the command line.
func projectPatch(cmd *cobra.Command, input project.Input) project.Patch {
	set := func(flag, value string) *string {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		return &value
	}
	return project.Patch{
		Title:       set("title", input.Title),
		Description: set("description", input.Description),
		Tech:        set("tech", input.Tech),
		Github:      set("github", input.Github),
		Image:       set("image", input.Image),
		Demo:        set("demo", input.Demo),
	}
}

func (a *app) projectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d deleted\n", id)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", arg)
	}
	return id, nil
}
