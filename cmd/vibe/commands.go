package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/adapters/backend"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/adapters/oauthcb"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/config"
	commentapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/comment/service"
	likeapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/like/service"
	postapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/post/service"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session"
	sessionapp "github.com/samliubearberkeley-oss/vibe-coding-community/internal/core/session/service"
	authPort "github.com/samliubearberkeley-oss/vibe-coding-community/internal/ports/auth"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/tui"
	"github.com/samliubearberkeley-oss/vibe-coding-community/internal/workers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const oauthLoginTimeout = 3 * time.Minute

var (
	rootCmd = &cobra.Command{
		Use:   "vibe",
		Short: "A terminal client for the vibe coding community",
		Long:  `vibe opens the community feed in your terminal: read posts, like them, join the comments, and publish your own.`,
		Run:   runTUI,
	}

	loginEmail    string
	loginPassword string
	loginOAuth    string
	loginSignUp   bool

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password or an OAuth provider",
		Run:   runLogin,
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Run:   runLogout,
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Run:   runWhoami,
	}
	feedCmd = &cobra.Command{
		Use:   "feed",
		Short: "Print the latest posts without the interactive screen",
		Run:   runFeed,
	}
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&loginOAuth, "oauth", "", "sign in via a provider instead (google or github)")
	loginCmd.Flags().BoolVar(&loginSignUp, "signup", false, "create the account first")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, feedCmd)
}

type services struct {
	sessions *sessionapp.Service
	posts    *postapp.Service
	comments *commentapp.Service
	likes    *likeapp.Service
}

func wire() *services {
	client, err := backend.New(backend.Config{
		BaseURL:     config.BaseURL(),
		APIKey:      config.APIKey(),
		SessionFile: config.SessionFile(),
		Logger:      config.Logger,
	})
	if err != nil {
		config.Logger.Fatal("backend client init failed", zap.Error(err))
	}

	gateway := backend.NewAuthGateway(client, config.Logger)
	return &services{
		sessions: sessionapp.NewSessionService(gateway, config.Logger),
		posts:    postapp.NewPostService(backend.NewPostRepositoryREST(client), config.Logger),
		comments: commentapp.NewCommentService(backend.NewCommentRepositoryREST(client), config.Logger),
		likes:    likeapp.NewLikeService(backend.NewLikeRepositoryREST(client), config.Logger),
	}
}

func runTUI(cmd *cobra.Command, args []string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "vibe needs a terminal; try `vibe feed` for plain output")
		os.Exit(1)
	}

	svcs := wire()

	focus := make(chan struct{}, 1)
	model := tui.New(tui.Config{
		Sessions: svcs.sessions,
		Posts:    svcs.posts,
		Comments: svcs.comments,
		Likes:    svcs.likes,
		Focus:    focus,
		Logger:   config.Logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())

	unsubscribe := svcs.sessions.Subscribe(func(s *session.Session) {
		p.Send(tui.SessionChangedMsg{Session: s})
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := workers.NewSessionRefresher(svcs.sessions, config.SessionRefresh(), focus, config.Logger)
	go refresher.Run(ctx)

	if _, err := p.Run(); err != nil {
		config.Logger.Fatal("terminal session failed", zap.Error(err))
	}
}

func runLogin(cmd *cobra.Command, args []string) {
	svcs := wire()
	ctx := context.Background()

	if loginOAuth != "" {
		loginWithOAuth(ctx, svcs, authPort.Provider(strings.ToLower(loginOAuth)))
		return
	}

	if loginEmail == "" || loginPassword == "" {
		fmt.Fprintln(os.Stderr, "login needs --email and --password, or --oauth google|github")
		os.Exit(1)
	}

	var (
		sess *session.Session
		err  error
	)
	if loginSignUp {
		sess, err = svcs.sessions.SignUp(ctx, loginEmail, loginPassword)
	} else {
		sess, err = svcs.sessions.SignInWithPassword(ctx, loginEmail, loginPassword)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign in failed:", err)
		os.Exit(1)
	}
	fmt.Println("signed in as", sess.DisplayName())
}

func loginWithOAuth(ctx context.Context, svcs *services, provider authPort.Provider) {
	listener, err := oauthcb.New("", config.Logger)
	if err != nil {
		config.Logger.Fatal("callback listener failed", zap.Error(err))
	}
	defer listener.Close()

	url, state, verifier, err := svcs.sessions.BeginOAuth(provider, listener.RedirectURL())
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign in failed:", err)
		os.Exit(1)
	}
	listener.SetState(state)

	fmt.Println("open this url in your browser to continue:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Println("waiting for the browser...")

	waitCtx, cancel := context.WithTimeout(ctx, oauthLoginTimeout)
	defer cancel()
	res, err := listener.Wait(waitCtx)
	if err != nil {
		svcs.sessions.EndOAuth(provider)
		fmt.Fprintln(os.Stderr, "sign in failed:", err)
		os.Exit(1)
	}

	sess, err := svcs.sessions.CompleteOAuth(ctx, provider, res.Code, verifier)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign in failed:", err)
		os.Exit(1)
	}
	fmt.Println("signed in as", sess.DisplayName())
}

func runLogout(cmd *cobra.Command, args []string) {
	svcs := wire()
	svcs.sessions.SignOut(context.Background())
	fmt.Println("signed out")
}

func runWhoami(cmd *cobra.Command, args []string) {
	svcs := wire()
	sess := svcs.sessions.Refresh(context.Background())
	if sess == nil {
		fmt.Println("not signed in")
		os.Exit(1)
	}
	fmt.Println(sess.DisplayName())
	fmt.Println("id:", sess.User.ID)
}

func runFeed(cmd *cobra.Command, args []string) {
	svcs := wire()
	ctx := context.Background()

	viewer := svcs.sessions.Refresh(ctx)
	posts, err := svcs.posts.Feed(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "feed failed:", err)
		os.Exit(1)
	}

	for _, p := range posts {
		author := "anonymous"
		if p.Author.Nickname != nil && *p.Author.Nickname != "" {
			author = *p.Author.Nickname
		}

		likes := "?"
		if st, err := svcs.likes.Resolve(ctx, p.ID, viewer); err == nil {
			likes = fmt.Sprintf("%d", st.Count)
		}
		comments := "?"
		if n, err := svcs.comments.Count(ctx, p.ID); err == nil {
			comments = fmt.Sprintf("%d", n)
		}

		fmt.Printf("%s  (%s, %s)\n", p.Title, author, p.CreatedAt.Format("2006-01-02 15:04"))
		if len(p.Tags) > 0 {
			fmt.Println("  #" + strings.Join(p.Tags, " #"))
		}
		fmt.Printf("  %s likes, %s comments\n\n", likes, comments)
	}
}
