package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/internal/app"
	"github.com/khrees2412/jobdash/internal/dashboard"
	"github.com/khrees2412/jobdash/pkg/models"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Launch the interactive dashboard",
	Long: `Launch an interactive dashboard that keeps your search, selected job, resume
and results in memory between commands. Backend calls run in the background;
while one is running every other action is refused. Type 'help' for commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return newShell(a, cmd.InOrStdin(), cmd.OutOrStdout()).run(cmd.Context())
	},
}

// lockedWriter serializes output from background actions and the prompt loop
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type shell struct {
	app    *app.App
	reader *bufio.Reader
	out    *lockedWriter
	wg     sync.WaitGroup
}

func newShell(a *app.App, in io.Reader, out io.Writer) *shell {
	return &shell{app: a, reader: bufio.NewReader(in), out: &lockedWriter{w: out}}
}

const shellHelp = `Commands:
  search                 search for jobs (prompts for filters)
  jobs                   list jobs from the last search
  select <n>             select a job
  show                   show the selected job
  resume <file>          load resume text from a file
  paste                  paste resume text, end with a line containing only "."
  analyze                score the resume against the selected job
  match                  score the resume against every job
  cover                  generate a cover letter for the selected job
  optimize               optimize the resume for the selected job (needs analyze)
  close                  close the optimization result
  apply                  track the selected job and show its apply link
  tracker                list tracked jobs (login required)
  update <id> <status>   change a tracked job's status (login required)
  login / logout         manage your session
  dismiss                clear the error banner
  status                 show what is loaded and which actions are available
  wait                   wait for running actions to finish
  quit                   exit`

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, titleStyle.Render("jobdash"))
	if email := s.app.Session.Email(); email != "" {
		fmt.Fprintf(s.out, "Logged in as %s. ", email)
	}
	fmt.Fprintln(s.out, "Type 'help' for commands.")

	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprint(s.out, "\n> ")
		line, err := s.reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := s.dispatch(ctx, line); quit {
				break
			}
		}
		if err != nil {
			break
		}
	}

	s.wg.Wait()
	return nil
}

// dispatch runs one command line and reports whether the shell should exit
func (s *shell) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, args := strings.ToLower(fields[0]), fields[1:]
	d := s.app.Dashboard

	switch name {
	case "q", "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "search":
		s.search(ctx)
	case "jobs", "ls":
		s.listJobs()
	case "select":
		s.selectJob(args)
	case "show":
		snap := d.Snapshot()
		job, ok := snap.SelectedJob()
		if !ok {
			s.printErr(dashboard.ErrNoJobSelected)
			return false
		}
		s.render(func(w io.Writer) { printJob(w, job) })
	case "resume":
		if len(args) != 1 {
			s.printErr(fmt.Errorf("%w: usage: resume <file>", app.ErrInvalidArgument))
			return false
		}
		if args[0] == "-" {
			fmt.Fprintln(s.out, "Use 'paste' to enter resume text directly.")
			return false
		}
		text, err := readResume(args[0], nil)
		if err != nil {
			s.printErr(err)
			return false
		}
		d.SetResume(text)
		fmt.Fprintf(s.out, "✓ Resume loaded (%d characters)\n", len(text))
	case "paste":
		d.SetResume(s.readBlock())
		fmt.Fprintln(s.out, "✓ Resume updated")
	case "analyze":
		s.background(ctx, "analyze", func(ctx context.Context, w io.Writer) error {
			res, err := d.Analyze(ctx)
			if err == nil {
				printAnalysis(w, res)
			}
			return err
		})
	case "match":
		s.background(ctx, "match", func(ctx context.Context, w io.Writer) error {
			if _, err := d.MatchAll(ctx); err != nil {
				return err
			}
			printMatches(w, d.Snapshot().Jobs)
			return nil
		})
	case "cover":
		s.background(ctx, "cover letter", func(ctx context.Context, w io.Writer) error {
			letter, err := d.GenerateCoverLetter(ctx)
			if err == nil {
				fmt.Fprintln(w, titleStyle.Render("Generated Cover Letter"))
				fmt.Fprintln(w, letter)
			}
			return err
		})
	case "optimize":
		s.background(ctx, "optimize", func(ctx context.Context, w io.Writer) error {
			res, err := d.Optimize(ctx)
			if err == nil {
				printOptimization(w, res)
			}
			return err
		})
	case "close":
		d.CloseOptimization()
	case "apply":
		s.apply(ctx)
	case "tracker":
		s.guarded(func() error {
			jobs, err := s.app.Tracker.Refresh(ctx)
			if err != nil {
				return err
			}
			s.render(func(w io.Writer) { printTracked(w, jobs) })
			return nil
		})
	case "update":
		s.guarded(func() error {
			if len(args) != 2 {
				return fmt.Errorf("%w: usage: update <id> <status>", app.ErrInvalidArgument)
			}
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			updated, err := s.app.Tracker.UpdateStatus(ctx, args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "✓ Job %s is now %s\n", args[0], statusBadge(updated.Status))
			return nil
		})
	case "login":
		email := prompt(s.reader, s.out, "Email")
		password := prompt(s.reader, s.out, "Password")
		if err := s.app.Login(ctx, email, password); err != nil {
			s.printErr(err)
			return false
		}
		fmt.Fprintf(s.out, "✓ Logged in as %s\n", email)
	case "logout":
		if err := s.app.Logout(ctx); err != nil {
			s.printErr(err)
			return false
		}
		fmt.Fprintln(s.out, "✓ Logged out")
	case "dismiss":
		d.DismissError()
	case "status":
		s.status()
	case "wait":
		s.wg.Wait()
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", name)
	}
	return false
}

func (s *shell) search(ctx context.Context) {
	last := s.app.Dashboard.Snapshot().Criteria
	criteria := models.SearchCriteria{
		Role:            s.promptDefault("Role", last.Role),
		Location:        s.promptDefault("Location", last.Location),
		ExperienceLevel: s.promptDefault("Experience level (any/entry/mid/senior)", last.ExperienceLevel),
	}
	if strings.EqualFold(criteria.ExperienceLevel, "any") {
		criteria.ExperienceLevel = models.LevelAny
	}
	last24 := s.promptDefault("Only last 24 hours? (y/n)", yesNo(last.Last24))
	criteria.Last24 = strings.HasPrefix(strings.ToLower(last24), "y")

	// Validation runs here so a bad role never starts a background call
	if err := criteria.Validate(); err != nil {
		s.printErr(err)
		return
	}

	s.background(ctx, "search", func(ctx context.Context, w io.Writer) error {
		jobs, err := s.app.Dashboard.Search(ctx, criteria)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Fprintln(w, "No jobs found matching your criteria.")
			return nil
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Found %d jobs", len(jobs))))
		printJobs(w, jobs, -1)
		return nil
	})
}

func (s *shell) listJobs() {
	snap := s.app.Dashboard.Snapshot()
	switch {
	case snap.Actions.IsBusy(dashboard.ActionSearch):
		fmt.Fprintln(s.out, "Searching...")
	case !snap.HasSearched:
		fmt.Fprintln(s.out, "Search to begin.")
	case len(snap.Jobs) == 0:
		fmt.Fprintln(s.out, "No results.")
	default:
		s.render(func(w io.Writer) { printJobs(w, snap.Jobs, snap.Selected) })
	}
}

func (s *shell) selectJob(args []string) {
	if len(args) != 1 {
		s.printErr(fmt.Errorf("%w: usage: select <n>", app.ErrInvalidArgument))
		return
	}
	i, err := jobIndex(args[0], len(s.app.Dashboard.Snapshot().Jobs))
	if err == nil {
		err = s.app.Dashboard.SelectJob(i)
	}
	if err != nil {
		s.printErr(err)
		return
	}
	job, _ := s.app.Dashboard.Snapshot().SelectedJob()
	fmt.Fprintf(s.out, "✓ Selected %s at %s\n", job.Title, job.Company)
}

func (s *shell) apply(ctx context.Context) {
	job, ok := s.app.Dashboard.Snapshot().SelectedJob()
	if !ok {
		s.printErr(dashboard.ErrNoJobSelected)
		return
	}
	s.guarded(func() error {
		tracked, err := s.app.Tracker.Track(ctx, job)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "✓ Tracking %s at %s (id %s)\n", tracked.Title, tracked.Company, tracked.ID)
		if job.ApplyLink != "" {
			fmt.Fprintf(s.out, "%s %s\n", labelStyle.Render("Apply:"), job.ApplyLink)
		}
		return nil
	})
}

func (s *shell) status() {
	snap := s.app.Dashboard.Snapshot()
	s.render(func(w io.Writer) {
		fmt.Fprintln(w, titleStyle.Render("Dashboard"))
		if snap.Error != "" {
			fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), snap.Error)
		}
		fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Jobs:"), len(snap.Jobs))
		if job, ok := snap.SelectedJob(); ok {
			fmt.Fprintf(w, "%s %s at %s\n", labelStyle.Render("Selected:"), job.Title, job.Company)
		}
		fmt.Fprintf(w, "%s %d characters\n", labelStyle.Render("Resume:"), len(strings.TrimSpace(snap.Resume)))
		if snap.Analysis != nil {
			fmt.Fprintf(w, "%s %.0f/100\n", labelStyle.Render("ATS Score:"), snap.Analysis.Score)
		}
		if snap.Optimization != nil {
			fmt.Fprintf(w, "%s %.0f -> %.0f\n", labelStyle.Render("Optimized:"), snap.Optimization.OriginalScore, snap.Optimization.NewScore)
		}
		if tracked := s.app.Tracker.Snapshot(); tracked.Loading {
			fmt.Fprintf(w, "%s loading\n", labelStyle.Render("Tracker:"))
		} else if tracked.Error != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Tracker:"), errorStyle.Render(tracked.Error))
		} else if len(tracked.Jobs) > 0 {
			fmt.Fprintf(w, "%s %d tracked\n", labelStyle.Render("Tracker:"), len(tracked.Jobs))
		}

		fmt.Fprintln(w, labelStyle.Render("\nAvailable:"))
		for _, c := range []struct {
			name string
			ok   bool
		}{
			{"search", snap.CanSearch()},
			{"analyze", snap.CanAnalyze()},
			{"match", snap.CanMatchAll()},
			{"cover", snap.CanGenerateCoverLetter()},
			{"optimize", snap.CanOptimize()},
		} {
			mark := mutedStyle.Render("no")
			if c.ok {
				mark = "yes"
			}
			fmt.Fprintf(w, "  %-9s %s\n", c.name, mark)
		}
	})
}

// background runs fn on its own goroutine and prints its output when done.
// Refusals from the single-flight gate are reported like any other error.
func (s *shell) background(ctx context.Context, label string, fn func(context.Context, io.Writer) error) {
	fmt.Fprintf(s.out, "%s started\n", label)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var buf bytes.Buffer
		if err := fn(ctx, &buf); err != nil {
			if errors.Is(err, dashboard.ErrStale) {
				return
			}
			buf.Reset()
			fmt.Fprintf(&buf, "%s %s\n", errorStyle.Render(label+" failed:"), api.Message(err))
		}
		s.out.Write(buf.Bytes())
	}()
}

func (s *shell) guarded(view func() error) {
	if err := s.app.RequireAuth(view); err != nil {
		if errors.Is(err, app.ErrUnauthenticated) {
			fmt.Fprintln(s.out, "You need to log in first. Type 'login'.")
			return
		}
		s.printErr(err)
	}
}

func (s *shell) render(fn func(io.Writer)) {
	var buf bytes.Buffer
	fn(&buf)
	s.out.Write(buf.Bytes())
}

func (s *shell) printErr(err error) {
	fmt.Fprintf(s.out, "%s %s\n", errorStyle.Render("Error:"), api.Message(err))
}

func (s *shell) promptDefault(label, def string) string {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	if v := prompt(s.reader, s.out, label); v != "" {
		return v
	}
	return def
}

// readBlock reads lines until one containing only "."
func (s *shell) readBlock() string {
	fmt.Fprintln(s.out, `Paste your resume, then a line with only "."`)
	var b strings.Builder
	for {
		line, err := s.reader.ReadString('\n')
		if strings.TrimRight(line, "\r\n") == "." {
			break
		}
		b.WriteString(line)
		if err != nil {
			break
		}
	}
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
