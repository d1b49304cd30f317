package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/qiniu/omni-comment/internal/config"
	"github.com/qiniu/omni-comment/internal/document"
	"github.com/qiniu/omni-comment/internal/events"
	"github.com/qiniu/omni-comment/internal/github/auth"
	"github.com/qiniu/omni-comment/internal/omnicomment"
	"github.com/qiniu/omni-comment/internal/trace"

	"github.com/joho/godotenv"
	"github.com/qiniu/x/log"
)

var loadDotEnv = godotenv.Load

type flags struct {
	issueNumber  int
	repo         string
	section      string
	token        string
	collapsed    bool
	configPath   string
	message      string
	messageFile  string
	title        string
	settingsPath string
	dryRun       bool
	debug        bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("omni-comment", flag.ContinueOnError)
	fs.IntVar(&f.issueNumber, "issue-number", 0, "issue or pull request number (default: from the workflow event)")
	fs.StringVar(&f.repo, "repo", "", "repository as owner/name (default: $GITHUB_REPOSITORY)")
	fs.StringVar(&f.section, "section", "", "section of the comment to write")
	fs.StringVar(&f.token, "token", "", "GitHub token (default: $GITHUB_TOKEN or a GitHub App installation token)")
	fs.BoolVar(&f.collapsed, "collapsed", false, "render the titled section collapsed")
	fs.StringVar(&f.configPath, "config", config.DefaultMetadataPath, "path to the comment layout file")
	fs.StringVar(&f.message, "message", "", "section content")
	fs.StringVar(&f.messageFile, "message-file", "", "read the section content from a file, - for stdin")
	fs.StringVar(&f.title, "title", "", "wrap the section in a collapsible block with this title")
	fs.StringVar(&f.settingsPath, "settings", "", "path to the runtime settings file")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the comment a first write would create and exit")
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.message != "" && f.messageFile != "" {
		return nil, fmt.Errorf("-message and -message-file are mutually exclusive")
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}
	if f.debug {
		log.SetOutputLevel(log.Ldebug)
	}

	// Local runs read credentials from .env; variables already set win
	if err := loadDotEnv(); err == nil {
		log.Debugf("Loaded .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = trace.NewContext(ctx, trace.NewTraceID(os.Getenv("GITHUB_RUN_ID")))

	if err := run(ctx, f, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("omni-comment failed: %v", err)
	}
}

func run(ctx context.Context, f *flags, stdin io.Reader, stdout io.Writer) error {
	message, err := readMessage(f, stdin)
	if err != nil {
		return err
	}

	if f.dryRun {
		return dryRun(f, message, stdout)
	}

	cfg, err := config.Load(f.settingsPath)
	if err != nil {
		return err
	}

	opts := omnicomment.Options{
		IssueNumber: f.issueNumber,
		Repo:        f.repo,
		Section:     f.section,
		Token:       f.token,
		Collapsed:   f.collapsed,
		ConfigPath:  f.configPath,
		Message:     message,
		Title:       f.title,
	}
	if err := resolveFromEnv(ctx, cfg, &opts); err != nil {
		return err
	}

	result, err := omnicomment.New(omnicomment.WithConfig(cfg)).Comment(ctx, opts)
	if err != nil {
		return err
	}

	if err := printResult(stdout, result); err != nil {
		return err
	}
	return writeOutputs(os.Getenv("GITHUB_OUTPUT"), result)
}

func readMessage(f *flags, stdin io.Reader) (string, error) {
	switch f.messageFile {
	case "":
		return f.message, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(f.messageFile)
		if err != nil {
			return "", fmt.Errorf("failed to read message file: %w", err)
		}
		return string(data), nil
	}
}

// resolveFromEnv fills the options left empty on the command line from the
// workflow environment
func resolveFromEnv(ctx context.Context, cfg *config.Config, opts *omnicomment.Options) error {
	workflow := events.FromEnv()

	if opts.Repo == "" {
		opts.Repo = workflow.Repository
	}

	if opts.IssueNumber == 0 && workflow.EventName != "" {
		number, err := workflow.IssueNumber()
		if err != nil {
			return fmt.Errorf("failed to resolve issue number from %s: %w", workflow, err)
		}
		opts.IssueNumber = number
	}

	if opts.Token == "" && (cfg.IsGitHubTokenConfigured() || cfg.IsGitHubAppConfigured()) {
		authenticator, err := auth.NewAuthenticatorBuilder(cfg).BuildAuthenticator()
		if err != nil {
			return err
		}
		token, err := authenticator.Token(ctx)
		if err != nil {
			return err
		}
		log.Debugf("Using %s credentials", authenticator.GetAuthInfo().Type)
		opts.Token = token
	}
	return nil
}

func dryRun(f *flags, message string, stdout io.Writer) error {
	if f.section == "" {
		return omnicomment.ErrSectionRequired
	}

	meta, err := config.LoadMetadata(f.configPath)
	if err != nil {
		return err
	}

	codec := document.Default()
	body := codec.WriteSection(codec.RenderBlank(*meta), document.Write{
		Section:   f.section,
		Content:   message,
		Title:     f.title,
		Collapsed: f.collapsed,
	})
	log.Infof("Dry run: comment would hold sections %v", codec.Sections(body))

	_, err = fmt.Fprintln(stdout, body)
	return err
}

func printResult(w io.Writer, result *omnicomment.Result) error {
	if result == nil {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeOutputs appends the step outputs to the $GITHUB_OUTPUT file
func writeOutputs(path string, result *omnicomment.Result) error {
	if path == "" || result == nil {
		return nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT: %w", err)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "comment-id=%d\nhtml-url=%s\nstatus=%s\n", result.ID, result.HTMLURL, result.Status)
	return err
}
