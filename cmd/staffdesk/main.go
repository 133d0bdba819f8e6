// Command staffdesk is a terminal client for the staff administration
// backend. It carries the same session semantics as the web front-end:
// a bearer token persisted locally, mirrored into a cookie for the route
// gate, resolved into a user on start, and dropped on logout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/term"

	"staffdesk/internal/api"
	"staffdesk/internal/audit"
	"staffdesk/internal/credential"
	"staffdesk/internal/dashboard"
	"staffdesk/internal/platform/config"
	"staffdesk/internal/platform/logger"
	platformredis "staffdesk/internal/platform/redis"
	"staffdesk/internal/session"
	sessionmetrics "staffdesk/internal/session/metrics"
	"staffdesk/internal/settings"
	"staffdesk/pkg/domain"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: staffdesk <command> [flags]

commands:
  login        authenticate and store the token
  whoami       show the current user
  logout       drop the stored credential
  employees    list employees
  departments  list departments
  dashboard    show aggregate statistics
  settings     show or change preferences
  audit        show the local audit trail`)
}

type app struct {
	cfg     config.Client
	log     *slog.Logger
	store   *credential.Store
	client  *api.Client
	session *session.Manager
	prefs   *settings.FileStore
	auditor *audit.Publisher

	stop       context.CancelFunc
	auditFlush <-chan struct{}
}

func newApp() (*app, error) {
	cfg := config.ClientFromEnv()
	log := logger.New()

	var backend credential.Backend
	if cfg.RedisURL != "" {
		client, err := platformredis.New(config.RedisFromEnv())
		if err != nil {
			return nil, fmt.Errorf("connect redis token store: %w", err)
		}
		backend = credential.NewRedisBackend(client.Client)
	} else {
		backend = credential.NewFileBackend(cfg.TokenPath)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	origin, err := url.Parse(cfg.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}

	store := credential.NewStore(backend, credential.NewCookieProjection(jar, origin, cfg.Production), log)
	client, err := api.NewClient(cfg.BackendURL, jar, store)
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Dir(cfg.TokenPath)
	bg, stop := context.WithCancel(context.Background())

	// Keep the cookie copy fresh for the lifetime of the command.
	go func() {
		_ = credential.NewSynchronizer(store, cfg.SyncInterval, log).Run(bg)
	}()

	// Session events land in a local JSONL trail via a background worker;
	// close() waits for the drain so short commands do not lose their events.
	trail := audit.NewFileStore(filepath.Join(stateDir, "audit.jsonl"))
	inbox := make(chan audit.Event, 64)
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		if err := audit.NewWorker(trail, inbox).Run(bg); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("audit worker stopped", "error", err)
		}
	}()
	auditor := audit.NewAsyncPublisher(trail, inbox)

	return &app{
		cfg:        cfg,
		log:        log,
		store:      store,
		client:     client,
		session:    session.NewManager(store, client, log, sessionmetrics.New(), auditor),
		prefs:      settings.NewFileStore(filepath.Join(stateDir, "settings.json"), log),
		auditor:    auditor,
		stop:       stop,
		auditFlush: flushed,
	}, nil
}

func (a *app) close() {
	a.stop()
	<-a.auditFlush
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "whoami":
		return a.whoami(ctx)
	case "logout":
		return a.logout(ctx)
	case "employees":
		return a.employees(ctx, args[1:])
	case "departments":
		return a.departments(ctx)
	case "dashboard":
		return a.dashboard(ctx)
	case "settings":
		return a.settings(args[1:])
	case "audit":
		return a.audit(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required")
	}

	if *password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = string(raw)
	}

	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}

	user, _ := a.session.User()
	fmt.Printf("logged in as %s (%s)\n", user.DisplayName, user.Role)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	a.session.Bootstrap(ctx)
	user, ok := a.session.User()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", user.DisplayName, user.Email, user.Role)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.session.Bootstrap(ctx)
	a.session.Logout()
	fmt.Println("logged out")
	return nil
}

func (a *app) employees(ctx context.Context, args []string) error {
	prefs := a.prefs.Load()

	fs := flag.NewFlagSet("employees", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", prefs.PageSize, "page size")
	search := fs.String("search", "", "name or email filter")
	department := fs.String("department", "", "department id filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.session.Bootstrap(ctx)

	result, err := a.client.ListEmployees(ctx, api.ListEmployeesParams{
		Page:         *page,
		PageSize:     *size,
		Search:       *search,
		DepartmentID: *department,
	})
	if err != nil {
		return err
	}

	for _, e := range result.Items {
		role, _ := domain.NormalizeRole(e.Role)
		fmt.Printf("%-36s  %-24s  %-10s  %s\n", e.ID, e.FirstName+" "+e.LastName, role, e.DepartmentName)
	}
	fmt.Printf("page %d/%d (%d total)\n", result.Page, result.TotalPages, result.TotalCount)
	return nil
}

func (a *app) departments(ctx context.Context) error {
	a.session.Bootstrap(ctx)

	departments, err := a.client.ListDepartments(ctx)
	if err != nil {
		return err
	}
	for _, d := range departments {
		fmt.Printf("%-36s  %-24s  %d employees\n", d.ID, d.Name, d.EmployeeCount)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	a.session.Bootstrap(ctx)

	employees, err := dashboard.FetchAll(ctx, a.client, 0)
	if err != nil {
		return err
	}
	stats := dashboard.Compute(employees)

	fmt.Printf("employees: %d\n\nby department:\n", stats.TotalEmployees)
	for _, b := range stats.Departments {
		fmt.Printf("  %-24s %4d  %5.1f%%\n", b.Label, b.Count, b.Percent)
	}
	fmt.Println("\nby role:")
	for _, b := range stats.Roles {
		fmt.Printf("  %-24s %4d  %5.1f%%\n", b.Label, b.Count, b.Percent)
	}
	return nil
}

func (a *app) settings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	theme := fs.String("theme", "", "set theme (light|dark)")
	pageSize := fs.String("page-size", "", "set default page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current := a.prefs.Load()
	changed := false
	if *theme != "" {
		if *theme != "light" && *theme != "dark" {
			return fmt.Errorf("unknown theme %q", *theme)
		}
		current.Theme = *theme
		changed = true
	}
	if *pageSize != "" {
		parsed, err := strconv.Atoi(*pageSize)
		if err != nil || parsed <= 0 {
			return fmt.Errorf("invalid page size %q", *pageSize)
		}
		current.PageSize = parsed
		changed = true
	}
	if changed {
		a.prefs.Save(current)
	}

	fmt.Printf("theme: %s\npage size: %d\n", current.Theme, current.PageSize)
	return nil
}

func (a *app) audit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	actor := fs.String("actor", "", "filter by actor email (all when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := a.auditor.List(ctx, *actor)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Printf("%s  %-20s %-12s %-20s %s\n",
			e.Timestamp.Format(time.RFC3339), e.Action, e.Outcome, e.Actor, e.Detail)
	}
	if len(events) == 0 {
		fmt.Println("no audit events recorded")
	}
	return nil
}
