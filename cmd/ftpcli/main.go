// Command ftpcli is a small FTP client for scripted and interactive use.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ftpwire/ftp"
)

var (
	flagHost    string
	flagUser    string
	flagPass    string
	flagTLS     bool
	flagPassive bool
	flagTimeout time.Duration
	flagLimit   int64
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:           "ftpcli",
		Short:         "A command-line FTP client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flagHost, "host", "H", "", "server host[:port] (required)")
	root.PersistentFlags().StringVarP(&flagUser, "user", "u", "anonymous", "login user")
	root.PersistentFlags().StringVarP(&flagPass, "pass", "p", "", "login password (prompted if empty and not anonymous)")
	root.PersistentFlags().BoolVar(&flagTLS, "tls", false, "connect with implicit TLS")
	root.PersistentFlags().BoolVar(&flagPassive, "passive", false, "use PASV instead of EPSV")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "network timeout")
	root.PersistentFlags().Int64Var(&flagLimit, "limit", 0, "transfer rate limit in bytes per second (0 = unlimited)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log the protocol conversation")
	_ = root.MarkPersistentFlagRequired("host")

	root.AddCommand(
		lsCmd(),
		namesCmd(),
		getCmd(),
		putCmd(),
		rmCmd(),
		mkdirCmd(),
		rmdirCmd(),
		mvCmd(),
		pwdCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}

// connect opens a session from the global flags.
func connect() (*ftp.Client, error) {
	var options []ftp.Option
	options = append(options, ftp.WithTimeout(flagTimeout))
	if flagPassive {
		options = append(options, ftp.WithMode(ftp.ModePassive))
	}
	if flagLimit > 0 {
		options = append(options, ftp.WithRateLimit(flagLimit))
	}
	if flagVerbose {
		options = append(options, ftp.WithLogger(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	user := flagUser
	pass := flagPass
	if pass == "" {
		if user == "anonymous" {
			pass = "anonymous@"
		} else {
			var err error
			pass, err = promptPassword(user)
			if err != nil {
				return nil, err
			}
		}
	}

	if flagTLS {
		return ftp.OpenSecure(flagHost, user, pass, options...)
	}
	return ftp.Open(flagHost, user, pass, options...)
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(user string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("no password given and stdin is not a terminal")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			entries, err := client.ListEntries(path)
			if err != nil {
				return err
			}

			dirColor := color.New(color.FgBlue, color.Bold)
			linkColor := color.New(color.FgCyan)
			for _, e := range entries {
				switch e.Type {
				case ftp.EntryDir:
					fmt.Printf("%12s  %s/\n", "", dirColor.Sprint(e.Name))
				case ftp.EntryLink:
					fmt.Printf("%12s  %s -> %s\n", "", linkColor.Sprint(e.Name), e.Target)
				case ftp.EntryFile:
					fmt.Printf("%12d  %s\n", e.Size, e.Name)
				default:
					fmt.Println(e.Raw)
				}
			}
			return nil
		},
	}
}

func namesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names [path]",
		Short: "List names only (NLST)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			names, err := client.NameList(path)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <remote> [local]",
		Short: "Download a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := args[0]
			local := filepath.Base(remote)
			if len(args) == 2 {
				local = args[1]
			}

			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()

			f, err := os.Create(local)
			if err != nil {
				return err
			}
			defer f.Close()

			pw := &ftp.ProgressWriter{
				Writer: f,
				Callback: func(total int64) {
					fmt.Fprintf(os.Stderr, "\r%s %d bytes", remote, total)
				},
			}
			if err := client.Retrieve(remote, pw); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)
			fmt.Printf("%s %s -> %s\n", color.GreenString("downloaded"), remote, local)
			return nil
		},
	}
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <local> [remote]",
		Short: "Upload a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := args[0]
			remote := filepath.Base(local)
			if len(args) == 2 {
				remote = args[1]
			}

			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()

			f, err := os.Open(local)
			if err != nil {
				return err
			}
			defer f.Close()

			pr := &ftp.ProgressReader{
				Reader: f,
				Callback: func(total int64) {
					fmt.Fprintf(os.Stderr, "\r%s %d bytes", local, total)
				},
			}
			if err := client.Store(remote, pr); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)
			fmt.Printf("%s %s -> %s\n", color.GreenString("uploaded"), local, remote)
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()
			return client.Delete(args[0])
		},
	}
}

func mkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()
			return client.MakeDir(args[0])
		},
	}
}

func rmdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Remove a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()
			return client.RemoveDir(args[0])
		},
	}
}

func mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Rename a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()
			return client.Rename(args[0], args[1])
		},
	}
}

func pwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Print the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}
			defer func() { _ = client.Quit() }()

			pwd, err := client.CurrentDir()
			if err != nil {
				return err
			}
			fmt.Println(pwd)
			return nil
		},
	}
}
