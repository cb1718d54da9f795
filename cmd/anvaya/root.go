package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/anvaya-club/anvaya/internal/apierr"
	"github.com/anvaya-club/anvaya/internal/client"
	"github.com/anvaya-club/anvaya/internal/config"
	"github.com/anvaya-club/anvaya/internal/logging"
)

// app is the state shared by all commands of one invocation.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	baseURL string
	api     *client.Client
	session *client.FileStore

	// invalidated is set by the client when the server rejects the token.
	invalidated atomic.Bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "anvaya",
		Short:         "Command-line client for the Anvaya Club API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (overrides ANVAYA_API_BASE_URL)")

	root.AddCommand(
		a.wingsCmd(),
		a.wingCmd(),
		a.photosCmd(),
		a.activitiesCmd(),
		a.activityCmd(),
		a.statsCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.uploadPhotosCmd(),
		a.deletePhotoCmd(),
		a.createActivityCmd(),
		a.updateActivityCmd(),
		a.deleteActivityCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogConfig(), a.errOut)

	session, err := client.NewFileStore(cfg.SessionFile)
	if err != nil {
		return err
	}
	a.session = session

	base := cfg.BaseURL
	if a.baseURL != "" {
		base = a.baseURL
	}
	a.api, err = client.New(base,
		client.WithTimeout(cfg.Timeout),
		client.WithSessionStore(session),
		client.WithLogger(logger),
		client.WithSessionInvalidatedHook(func(context.Context) {
			a.invalidated.Store(true)
		}),
	)
	return err
}

// print writes v as indented JSON.
func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// adminErr decorates a failed admin call. After the server has ended the
// session the user is told to log in again.
func (a *app) adminErr(err error) error {
	if err == nil {
		return nil
	}
	if a.invalidated.Load() {
		return fmt.Errorf("%s\nyour session has ended; run \"anvaya login\" again", apierr.Message(err))
	}
	return apiError(err)
}

// apiError turns an *apierr.Error into its user-facing message.
func apiError(err error) error {
	if err == nil {
		return nil
	}
	if apiErr, ok := apierr.As(err); ok {
		return errors.New(apiErr.Message)
	}
	return err
}

// requireSession fails fast when no token is stored.
func (a *app) requireSession() error {
	if !a.api.IsAuthenticated() {
		return errors.New("not logged in; run \"anvaya login\" first")
	}
	return nil
}
