package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/gdugdh24/therapymatch-backend/internal/config"
	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/infrastructure/container"
	"github.com/spf13/cobra"
)

const app = "therapymatch-admin"

// adminService is the slice of the application the CLI drives.
type adminService interface {
	SetHelperVerification(ctx context.Context, helperID int, verified bool) (*domain.Helper, error)
	ListHelpers(ctx context.Context, verified *bool) ([]*domain.Helper, error)
	FindMatches(ctx context.Context, seekerID, limit int) ([]*domain.HelperMatch, error)
	PromoteToAdmin(ctx context.Context, userID int) (*domain.User, error)
}

// opener builds the service and returns a func releasing its resources.
type opener func(ctx context.Context) (adminService, func(), error)

type containerService struct {
	*container.Container
}

func (s containerService) SetHelperVerification(ctx context.Context, helperID int, verified bool) (*domain.Helper, error) {
	return s.ProfileUseCase.SetHelperVerification(ctx, helperID, verified)
}

func (s containerService) ListHelpers(ctx context.Context, verified *bool) ([]*domain.Helper, error) {
	return s.ProfileUseCase.ListHelpers(ctx, verified)
}

func (s containerService) FindMatches(ctx context.Context, seekerID, limit int) ([]*domain.HelperMatch, error) {
	return s.Matcher.FindMatches(ctx, seekerID, limit)
}

func (s containerService) PromoteToAdmin(ctx context.Context, userID int) (*domain.User, error) {
	return s.AuthUseCase.SetRole(ctx, userID, domain.RoleAdmin)
}

func openContainer(ctx context.Context) (adminService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return containerService{c}, func() { _ = c.Close() }, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          app,
		Short:        app + " manages helpers, admins and inspects matches",
		SilenceUsage: true,
	}

	root.AddCommand(
		newVerifyCmd(open, true),
		newVerifyCmd(open, false),
		newHelpersCmd(open),
		newMatchCmd(open),
		newPromoteCmd(open),
	)
	return root
}

func newVerifyCmd(open opener, verified bool) *cobra.Command {
	use, short := "verify <helper_id>", "Mark a helper as verified"
	if !verified {
		use, short = "unverify <helper_id>", "Remove a helper's verification"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helperID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			helper, err := svc.SetHelperVerification(cmd.Context(), helperID, verified)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "helper %d (%s) verified=%t\n", helper.ID, helper.Name, helper.Profile.IsVerified)
			return nil
		},
	}
}

func newHelpersCmd(open opener) *cobra.Command {
	helpers := &cobra.Command{
		Use:   "helpers",
		Short: "Inspect helpers",
	}

	var verifiedFlag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List helpers, optionally filtered by verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var verified *bool
			if verifiedFlag != "" {
				v, err := strconv.ParseBool(verifiedFlag)
				if err != nil {
					return fmt.Errorf("--verified must be true or false: %w", err)
				}
				verified = &v
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			found, err := svc.ListHelpers(cmd.Context(), verified)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tVERIFIED")
			for _, h := range found {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", h.ID, h.Name, h.Email, h.Profile.IsVerified)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&verifiedFlag, "verified", "", "filter by verification (true|false)")

	helpers.AddCommand(list)
	return helpers
}

func newMatchCmd(open opener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match <seeker_id>",
		Short: "Run the matcher for a seeker and print the ranked helpers as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seekerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be positive")
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			matches, err := svc.FindMatches(cmd.Context(), seekerID, limit)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of helpers")
	return cmd
}

func newPromoteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <user_id>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}

			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := svc.PromoteToAdmin(cmd.Context(), userID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) role=%s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
