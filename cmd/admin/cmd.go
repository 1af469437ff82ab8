package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/grvup/classroom/config"
	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	"github.com/grvup/classroom/internal/service"
	applogger "github.com/grvup/classroom/pkg/logger"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password must not be empty")
)

// openFunc connects storage and returns the account service plus a cleanup
type openFunc func(ctx context.Context, configPath string) (service.AuthService, func(), error)

type commandLine struct {
	open openFunc
	out  io.Writer

	configPath string
	auth       service.AuthService
	cleanup    func()
}

func newRootCmd(cli *commandLine) *cobra.Command {
	root := &cobra.Command{
		Use:           "classroom-admin",
		Short:         "Maintenance commands for the classroom server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			auth, cleanup, err := cli.open(cmd.Context(), cli.configPath)
			if err != nil {
				return err
			}
			cli.auth, cli.cleanup = auth, cleanup
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cli.cleanup != nil {
				cli.cleanup()
			}
		},
	}
	root.SetOut(cli.out)
	root.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "config file (default ./config/config.yaml)")

	root.AddCommand(
		cli.seedCmd(),
		cli.addUserCmd(),
		cli.resetPasswordCmd(),
		cli.migrateCmd(),
	)
	return root
}

func (cli *commandLine) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default principal account if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := cli.auth.EnsureDefaultPrincipal(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cli.out, "principal account created")
			} else {
				fmt.Fprintln(cli.out, "principal account already exists")
			}
			return nil
		},
	}
}

func (cli *commandLine) addUserCmd() *cobra.Command {
	var email, name, role string
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create an account; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := model.ParseRole(role)
			if err != nil {
				return err
			}
			pwd, err := promptPassword(cli.out)
			if err != nil {
				return err
			}
			user, err := cli.auth.CreateUser(cmd.Context(), email, name, pwd, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "created %s account %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(model.RoleTeacher), "Principal, Teacher or Student")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resetpassword",
		Short: "Reset an account's password; the new password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := promptPassword(cli.out)
			if err != nil {
				return err
			}
			if err := cli.auth.ResetPassword(cmd.Context(), email, pwd); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "password updated for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// migrateCmd storage is prepared on connect, so there is nothing left to do
// once PersistentPreRunE succeeded.
func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres migrations or create MongoDB indexes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(cli.out, "storage schema is up to date")
			return nil
		},
	}
}

func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(pwd)) == "" {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}

func openServices(ctx context.Context, configPath string) (service.AuthService, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := applogger.NewCLILogger(&cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	store, err := repository.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewService(cfg, store.Repository, logger)

	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("closing storage failed", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return svc.Auth, cleanup, nil
}

