package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cryptium/loginshield-go/loginshield"
	"github.com/cryptium/loginshield-go/util"
	"github.com/cryptium/loginshield-go/version"
)

// errResult is returned when an operation produced an ErrorResult. The
// result itself has already been printed.
var errResult = errors.New("operation failed")

func newRealmInfoCmd(a *app) *cobra.Command {
	var id, uri string
	cmd := &cobra.Command{
		Use:   "realm-info",
		Short: "Look up a realm by --id or --uri",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id == "") == (uri == "") {
				return errors.New("exactly one of --id or --uri is required")
			}
			client, err := a.realmClient()
			if err != nil {
				return err
			}
			var info loginshield.RealmInfo
			if id != "" {
				info, err = client.GetRealmInfoByID(commandContext(cmd), id)
			} else {
				info, err = client.GetRealmInfoByURI(commandContext(cmd), uri)
			}
			if err != nil {
				var httpErr *loginshield.HTTPException
				if errors.As(err, &httpErr) && httpErr.Response != nil {
					_ = printJSON(cmd.ErrOrStderr(), httpErr.Response)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "realm id")
	cmd.Flags().StringVar(&uri, "uri", "", "realm uri")
	return cmd
}

func newCreateUserCmd(a *app) *cobra.Command {
	var (
		userID, name, email, redirect string
		replace                       bool
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Register a user in the realm",
		Long: "Register a user in the realm. With --redirect the redirect method is used and\n" +
			"the printed forward URL must be opened in a browser; otherwise --name and\n" +
			"--email are required.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.sessionClient()
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			var (
				resp *loginshield.CreateRealmUserResponse
				fail *loginshield.ErrorResult
			)
			if redirect != "" {
				resp, fail = client.CreateRealmUserWithRedirect(ctx, loginshield.CreateRealmUserWithRedirectRequest{
					RealmScopedUserID: userID,
					Redirect:          redirect,
				})
			} else {
				req := loginshield.CreateRealmUserRequest{
					RealmScopedUserID: userID,
					Name:              name,
					Email:             email,
				}
				if cmd.Flags().Changed("replace") {
					req.Replace = util.Ptr(replace)
				}
				resp, fail = client.CreateRealmUser(ctx, req)
			}
			if fail != nil {
				return printFailure(cmd, fail)
			}
			return printResponse(cmd.OutOrStdout(), resp.Raw, resp)
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "realm scoped user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&redirect, "redirect", "", "use the redirect method and return here afterwards")
	cmd.Flags().BoolVar(&replace, "replace", false, "replace an existing registration")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newStartLoginCmd(a *app) *cobra.Command {
	var (
		userID, redirect string
		newKey           bool
	)
	cmd := &cobra.Command{
		Use:   "start-login",
		Short: "Start a login and print the forward URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.sessionClient()
			if err != nil {
				return err
			}
			resp, fail := client.StartLogin(commandContext(cmd), loginshield.StartLoginRequest{
				RealmScopedUserID: userID,
				Redirect:          redirect,
				IsNewKey:          newKey,
			})
			if fail != nil {
				return printFailure(cmd, fail)
			}
			return printResponse(cmd.OutOrStdout(), resp.Raw, resp)
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "realm scoped user id")
	cmd.Flags().StringVar(&redirect, "redirect", "", "redirect used for a safety reset")
	cmd.Flags().BoolVar(&newKey, "new-key", false, "first login after registration")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newVerifyLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-login <token>",
		Short: "Verify the token returned to the redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.sessionClient()
			if err != nil {
				return err
			}
			resp, fail := client.VerifyLogin(commandContext(cmd), args[0])
			if fail != nil {
				return printFailure(cmd, fail)
			}
			return printResponse(cmd.OutOrStdout(), resp.Raw, resp)
		},
	}
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip logger and telemetry setup.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersion())
				return err
			}
			return printJSON(cmd.OutOrStdout(), version.GetVersionInfo())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version string")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printFailure writes the tagged result to stdout and its cause to stderr.
func printFailure(cmd *cobra.Command, fail *loginshield.ErrorResult) error {
	if err := printJSON(cmd.OutOrStdout(), fail); err != nil {
		return err
	}
	if fail.Err != nil {
		return fmt.Errorf("%w: %s: %w", errResult, fail.Error, fail.Err)
	}
	return fmt.Errorf("%w: %s", errResult, fail.Error)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResponse prints the body as received, or v when there is none.
func printResponse(w io.Writer, raw []byte, v interface{}) error {
	if len(raw) > 0 {
		return printRaw(w, raw)
	}
	return printJSON(w, v)
}

func printRaw(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
