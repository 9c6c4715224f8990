package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	memoboard "github.com/memoboard/memoboard-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	backend string
	baseURL string
	dataDir string
	debug   bool
)

const opTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memoboard",
		Short: "Memoboard CLI for managing memos, comments and sessions",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("MEMOBOARD_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&backend, "backend", getEnv("MEMOBOARD_BACKEND", "remote"), "Store backend: remote, local or mock")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", getEnv("MEMOBOARD_BASE_URL", "http://localhost:8080/api"), "Base URL of the memo API")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", getEnv("MEMOBOARD_DATA_DIR", defaultDataDir()), "Snapshot directory for the local backend")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newCommentCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newSignupCmd())

	return rootCmd
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".memoboard"
	}
	return filepath.Join(home, ".memoboard")
}

// newClient builds a client from the persistent flags. The session token
// survives across invocations in a file under the data directory.
func newClient() (*memoboard.Client, error) {
	cfg := memoboard.Config{
		Backend: memoboard.Backend(backend),
		BaseURL: baseURL,
		DataDir: dataDir,
		Debug:   debug,
	}
	ts, err := newFileTokenSource(filepath.Join(dataDir, "token"))
	if err != nil {
		return nil, err
	}
	return memoboard.New(cfg, memoboard.WithTokenSource(ts))
}

func opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), opTimeout)
}

func printMemo(m memoboard.Memo) {
	fmt.Printf("%s  %s\n", m.ID, m.Title)
	fmt.Printf("    by %s on %s\n", m.Author, m.Date.Format("2006-01-02 15:04"))
	if m.Content != "" {
		for _, line := range strings.Split(m.Content, "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all memos",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			if err := c.Board().Refresh(ctx); err != nil {
				return err
			}
			for _, m := range c.Board().Memos() {
				fmt.Printf("%s  %-30s  %s  %s\n", m.ID, m.Title, m.Author, m.Date.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <memo-id>",
		Short: "Show one memo with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			m, err := c.Store().GetMemo(ctx, memoboard.ID(args[0]))
			if err != nil {
				return err
			}
			printMemo(*m)
			comments, err := c.Store().ListComments(ctx, m.ID)
			if err != nil {
				return err
			}
			for _, cm := range comments {
				fmt.Printf("  [%s] %s — %s (%s)\n", cm.ID, cm.Text, cm.Author, cm.Date.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	var title, content, author string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a memo",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			draft := c.Board().CreateDraft()
			m, err := c.Board().Commit(ctx, draft.ID, memoboard.MemoDraft{
				Title:   title,
				Content: content,
				Author:  author,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created memo %s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Memo title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Memo body")
	cmd.Flags().StringVar(&author, "author", "", "Author name")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd() *cobra.Command {
	var title, content string
	cmd := &cobra.Command{
		Use:   "edit <memo-id>",
		Short: "Update a memo's title and body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			id := memoboard.ID(args[0])
			current, err := c.Store().GetMemo(ctx, id)
			if err != nil {
				return err
			}
			if title == "" {
				title = current.Title
			}
			if !cmd.Flags().Changed("content") {
				content = current.Content
			}
			m, err := c.Store().UpdateMemo(ctx, id, memoboard.MemoDraft{
				Title:   title,
				Content: content,
				Author:  current.Author,
			})
			if err != nil {
				return err
			}
			fmt.Printf("updated memo %s\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title (keeps current if omitted)")
	cmd.Flags().StringVar(&content, "content", "", "New body (keeps current if omitted)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <memo-id>",
		Short: "Delete a memo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			id := memoboard.ID(args[0])
			if err := c.Board().Refresh(ctx); err != nil {
				return err
			}
			confirm := func() bool {
				if yes {
					return true
				}
				return promptYesNo(fmt.Sprintf("delete memo %s?", id))
			}
			if err := c.Board().Remove(ctx, id, confirm); err != nil {
				return err
			}
			if _, still := c.Board().Get(id); still {
				fmt.Println("aborted")
				return nil
			}
			fmt.Printf("deleted memo %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func promptYesNo(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <memo-id>",
		Short: "List a memo's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			comments, err := c.Store().ListComments(ctx, memoboard.ID(args[0]))
			if err != nil {
				return err
			}
			for _, cm := range comments {
				fmt.Printf("[%s] %s — %s (%s)\n", cm.ID, cm.Text, cm.Author, cm.Date.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit or remove a comment",
	}
	cmd.AddCommand(newCommentAddCmd())
	cmd.AddCommand(newCommentEditCmd())
	cmd.AddCommand(newCommentRmCmd())
	return cmd
}

func newCommentAddCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "add <memo-id> <text>",
		Short: "Add a comment to a memo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			added, err := c.Store().AddComment(ctx, memoboard.ID(args[0]), memoboard.CommentDraft{
				Text:   args[1],
				Author: author,
			})
			if err != nil {
				return err
			}
			fmt.Printf("added comment %s\n", added.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Comment author")
	return cmd
}

func newCommentEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <memo-id> <comment-id> <text>",
		Short: "Edit a comment body",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			if err := c.Store().UpdateComment(ctx, memoboard.ID(args[0]), memoboard.ID(args[1]), args[2]); err != nil {
				return err
			}
			fmt.Println("updated")
			return nil
		},
	}
}

func newCommentRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <memo-id> <comment-id>",
		Short: "Remove a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := opContext(cmd)
			defer cancel()
			if err := c.Store().DeleteComment(ctx, memoboard.ID(args[0]), memoboard.ID(args[1])); err != nil {
				return err
			}
			fmt.Println("removed")
			return nil
		},
	}
}

func requireSession(c *memoboard.Client) (*memoboard.Session, error) {
	s := c.Session()
	if s == nil {
		return nil, fmt.Errorf("the %s backend has no auth surface; use --backend remote", backend)
	}
	return s, nil
}

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			s, err := requireSession(c)
			if err != nil {
				return err
			}

			ctx, cancel := opContext(cmd)
			defer cancel()
			res := s.Login(ctx, email, password)
			if !res.Success {
				return fmt.Errorf("login failed: %s", res.Message)
			}
			fmt.Println("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and drop the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			s, err := requireSession(c)
			if err != nil {
				return err
			}

			ctx, cancel := opContext(cmd)
			defer cancel()
			s.Logout(ctx)
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			s, err := requireSession(c)
			if err != nil {
				return err
			}

			ctx, cancel := opContext(cmd)
			defer cancel()
			u, err := s.Whoami(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", u.DisplayName, u.Email)
			return nil
		},
	}
}

func newSignupCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			s, err := requireSession(c)
			if err != nil {
				return err
			}

			ctx, cancel := opContext(cmd)
			defer cancel()
			res := s.Signup(ctx, email, password)
			if !res.Success {
				return fmt.Errorf("signup failed: %s", res.Message)
			}
			fmt.Println("account created")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
