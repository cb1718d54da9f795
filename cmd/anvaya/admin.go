package main

import (
	"bufio"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvaya-club/anvaya/internal/client"
)

func (a *app) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as the admin and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(a.errOut, "Password: ")
				line, err := bufio.NewReader(a.in).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if _, err := a.api.Login(cmd.Context(), username, password); err != nil {
				return apiError(err)
			}
			fmt.Fprintf(a.out, "Logged in as %s (session in %s)\n", strings.TrimSpace(username), a.session.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.api.CurrentUser()
			if err != nil {
				return err
			}
			return a.print(map[string]any{
				"username":      user,
				"authenticated": a.api.IsAuthenticated(),
				"base_url":      a.api.BaseURL(),
			})
		},
	}
}

func (a *app) uploadPhotosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-photos <wing-id> <file>...",
		Short: "Upload images to a wing's gallery",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			wingID, err := parseID(args[0])
			if err != nil {
				return err
			}
			files := make([]client.File, 0, len(args)-1)
			for _, path := range args[1:] {
				f, closeFn, err := openFile(path)
				if err != nil {
					return err
				}
				defer closeFn()
				files = append(files, f)
			}
			photos, err := a.api.UploadPhotos(cmd.Context(), wingID, files)
			if err != nil {
				return a.adminErr(err)
			}
			return a.print(photos)
		},
	}
}

func (a *app) deletePhotoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-photo <id>",
		Short: "Delete a photo and its stored image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeletePhoto(cmd.Context(), id); err != nil {
				return a.adminErr(err)
			}
			fmt.Fprintln(a.out, "Photo deleted")
			return nil
		},
	}
}

func (a *app) createActivityCmd() *cobra.Command {
	var (
		p      client.CreateActivityParams
		report string
	)
	cmd := &cobra.Command{
		Use:   "create-activity",
		Short: "Record a new activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if report != "" {
				f, closeFn, err := openFile(report)
				if err != nil {
					return err
				}
				defer closeFn()
				p.ReportFile = &f
			}
			activity, err := a.api.CreateActivity(cmd.Context(), p)
			if err != nil {
				return a.adminErr(err)
			}
			return a.print(activity)
		},
	}
	cmd.Flags().Int64Var(&p.WingID, "wing", 0, "wing id")
	cmd.Flags().StringVar(&p.Title, "title", "", "title")
	cmd.Flags().StringVar(&p.Description, "description", "", "description")
	cmd.Flags().StringVar(&p.ActivityDate, "date", "", "activity date, YYYY-MM-DD")
	cmd.Flags().StringVar(&p.FacultyCoordinator, "coordinator", "", "faculty coordinator")
	cmd.Flags().StringVar(&report, "report", "", "path of a PDF report")
	_ = cmd.MarkFlagRequired("wing")
	return cmd
}

func (a *app) updateActivityCmd() *cobra.Command {
	var (
		title, description, date, coordinator, report string
		clearCoordinator                              bool
	)
	cmd := &cobra.Command{
		Use:   "update-activity <id>",
		Short: "Change fields of an activity; omitted flags are left alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := updateParams(cmd, id, title, description, date, coordinator, clearCoordinator)
			if report != "" {
				f, closeFn, err := openFile(report)
				if err != nil {
					return err
				}
				defer closeFn()
				p.ReportFile = &f
			}
			activity, err := a.api.UpdateActivity(cmd.Context(), p)
			if err != nil {
				return a.adminErr(err)
			}
			return a.print(activity)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new activity date, YYYY-MM-DD")
	cmd.Flags().StringVar(&coordinator, "coordinator", "", "new faculty coordinator")
	cmd.Flags().BoolVar(&clearCoordinator, "clear-coordinator", false, "remove the faculty coordinator")
	cmd.Flags().StringVar(&report, "report", "", "path of a PDF report replacing the current one")
	cmd.MarkFlagsMutuallyExclusive("coordinator", "clear-coordinator")
	return cmd
}

// updateParams maps flags to a partial update. Only flags the user set are
// sent, so an explicit --title "" reaches the client and is rejected there.
func updateParams(cmd *cobra.Command, id int64, title, description, date, coordinator string, clearCoordinator bool) client.UpdateActivityParams {
	p := client.UpdateActivityParams{ActivityID: id}
	flags := cmd.Flags()
	if flags.Changed("title") {
		p.Title = &title
	}
	if flags.Changed("description") {
		p.Description = &description
	}
	if flags.Changed("date") {
		p.ActivityDate = &date
	}
	switch {
	case clearCoordinator:
		p.FacultyCoordinator = client.ClearField()
	case flags.Changed("coordinator"):
		p.FacultyCoordinator = client.SetField(coordinator)
	}
	return p
}

func (a *app) deleteActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-activity <id>",
		Short: "Delete an activity and its report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.DeleteActivity(cmd.Context(), id); err != nil {
				return a.adminErr(err)
			}
			fmt.Fprintln(a.out, "Activity deleted")
			return nil
		},
	}
}

// openFile opens path as an upload. The content type is guessed from the
// extension; the server sniffs the bytes anyway.
func openFile(path string) (client.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return client.File{}, nil, err
	}
	return client.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data:        f,
	}, func() { _ = f.Close() }, nil
}
