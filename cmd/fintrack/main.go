package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/term"

	"fintrack/internal/api"
	"fintrack/internal/config"
	"fintrack/internal/dashboard"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/reconcile"
	"fintrack/internal/session"
	"fintrack/internal/transport"
	"fintrack/internal/validator"
)

const usage = `Usage: fintrack <command> [flags]

Commands:
  register     Create an account and log in
  login        Log in to an existing account
  logout       Log out and clear the local session
  whoami       Show the logged-in identity
  dashboard    Show the spending dashboard
  analytics    Show detailed analytics
  expenses     Manage expenses (list | add | update | delete)
  categories   Manage categories (list | add | delete)
  export       Download an expense report (csv or pdf)
`

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles the clients a command needs. The CLI is the view layer: it
// owns user-facing messaging and retry triggers, nothing below it does.
type app struct {
	cfg        *config.Config
	session    *session.Store
	auth       *api.AuthClient
	expenses   *api.ExpensesClient
	categories *api.CategoriesClient
	analytics  *api.AnalyticsClient
	reports    *api.ReportsClient
	stdin      io.Reader
	stdout     io.Writer
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := session.OpenFile(cfg.StateDBPath)
	if err != nil {
		return err
	}

	t := transport.New(cfg.APIBaseURL, store, &http.Client{Timeout: cfg.RequestTimeout})
	a := &app{
		cfg:        cfg,
		session:    store,
		auth:       api.NewAuthClient(t),
		expenses:   api.NewExpensesClient(t),
		categories: api.NewCategoriesClient(t),
		analytics:  api.NewAnalyticsClient(t),
		reports:    api.NewReportsClient(t),
		stdin:      stdin,
		stdout:     stdout,
	}

	ctx := context.Background()
	switch args[0] {
	case "register":
		return a.register(ctx, args[1:])
	case "login":
		return a.login(ctx, args[1:])
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "dashboard":
		return a.dashboard(ctx)
	case "analytics":
		return a.analyticsView(ctx)
	case "expenses":
		return a.expensesCmd(ctx, args[1:])
	case "categories":
		return a.categoriesCmd(ctx, args[1:])
	case "export":
		return a.export(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.promptPassword()
	if err != nil {
		return err
	}

	req := api.RegisterRequest{Name: *name, Email: *email, Password: password}
	if err := validator.Validate(req); err != nil {
		return err
	}

	resp, err := a.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	if err := a.session.Login(session.Identity{Name: resp.Name, Email: resp.Email}, resp.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Registered and logged in as %s <%s>\n", resp.Name, resp.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.promptPassword()
	if err != nil {
		return err
	}

	req := api.LoginRequest{Email: *email, Password: password}
	if err := validator.Validate(req); err != nil {
		return err
	}

	resp, err := a.auth.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := a.session.Login(session.Identity{Name: resp.Name, Email: resp.Email}, resp.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Logged in as %s <%s>\n", resp.Name, resp.Email)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func (a *app) whoami() error {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.stdout, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.stdout, "%s <%s>\n", user.Name, user.Email)
	if exp := a.session.TokenExpiresAt(); !exp.IsZero() {
		fmt.Fprintf(a.stdout, "Session expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	agg := dashboard.NewAggregator(a.expenses, a.analytics)
	vm, err := agg.LoadDashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "This month:  %s\n", money(vm.MonthlyTotal))
	fmt.Fprintf(a.stdout, "This year:   %s\n", money(vm.YearlyTotal))
	if vm.TopCategory != nil {
		fmt.Fprintf(a.stdout, "Top category: %s (%s)\n", vm.TopCategory.Name, money(vm.TopCategory.Total))
	} else {
		fmt.Fprintln(a.stdout, "Top category: n/a")
	}
	if vm.Prediction != nil {
		fmt.Fprintf(a.stdout, "Next month (predicted): %s, based on %d months\n",
			money(vm.Prediction.Amount), vm.Prediction.MonthsConsidered)
	}
	if len(vm.RecentExpenses) > 0 {
		fmt.Fprintln(a.stdout, "\nRecent expenses:")
		a.printExpenses(vm.RecentExpenses)
	}
	return nil
}

func (a *app) analyticsView(ctx context.Context) error {
	agg := dashboard.NewAggregator(a.expenses, a.analytics)
	vm, err := agg.LoadAnalytics(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Monthly totals:")
	for _, m := range vm.Monthly {
		fmt.Fprintf(a.stdout, "  %s  %s\n", m.Month, money(m.Total))
	}
	fmt.Fprintln(a.stdout, "Yearly totals:")
	for _, y := range vm.Yearly {
		fmt.Fprintf(a.stdout, "  %d  %s (%d expenses)\n", y.Year, money(y.Total), y.Count)
	}
	fmt.Fprintln(a.stdout, "By category:")
	for _, c := range vm.ByCategory {
		fmt.Fprintf(a.stdout, "  %-20s %s\n", c.CategoryName, money(c.Total))
	}
	if vm.Predicted != nil {
		fmt.Fprintf(a.stdout, "Predicted next month: %s (%d months considered)\n",
			money(vm.Predicted.PredictedAmount), vm.Predicted.MonthsConsidered)
	}
	return nil
}

func (a *app) expensesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		expenses, err := a.expenses.List(ctx)
		if err != nil {
			return err
		}
		a.printExpenses(expenses)
		return nil
	case "add":
		return a.addExpense(ctx, args[1:])
	case "update":
		return a.updateExpense(ctx, args[1:])
	case "delete":
		return a.deleteExpense(ctx, args[1:])
	default:
		return fmt.Errorf("unknown expenses subcommand %q", args[0])
	}
}

func (a *app) addExpense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses add", flag.ContinueOnError)
	category := fs.Int64("category", 0, "Category ID")
	amount := fs.Float64("amount", 0, "Amount spent")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
	mode := fs.String("mode", api.PaymentModeCash, "Payment mode")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.ExpenseRequest{
		CategoryID:  *category,
		Amount:      *amount,
		Description: *desc,
		Date:        *date,
		PaymentMode: *mode,
	}
	if err := validator.Validate(req); err != nil {
		return err
	}

	// Fetch the list before mutating so the confirmed record can be
	// reconciled in without a second round trip.
	items, err := a.expenses.List(ctx)
	if err != nil {
		return err
	}
	list := reconcile.NewExpenseList(items)

	created, err := a.expenses.Create(ctx, req)
	if err != nil {
		return err
	}
	list.AfterCreate(*created)

	fmt.Fprintf(a.stdout, "Added expense #%d\n", created.ID)
	a.printExpenses(list.Items())
	return nil
}

func (a *app) updateExpense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses update", flag.ContinueOnError)
	id := fs.Int64("id", 0, "Expense ID")
	category := fs.Int64("category", 0, "Category ID")
	amount := fs.Float64("amount", 0, "Amount spent")
	desc := fs.String("desc", "", "Description")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
	mode := fs.String("mode", api.PaymentModeCash, "Payment mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "-id is required")
	}

	req := api.ExpenseRequest{
		CategoryID:  *category,
		Amount:      *amount,
		Description: *desc,
		Date:        *date,
		PaymentMode: *mode,
	}
	if err := validator.Validate(req); err != nil {
		return err
	}

	items, err := a.expenses.List(ctx)
	if err != nil {
		return err
	}
	list := reconcile.NewExpenseList(items)

	updated, err := a.expenses.Update(ctx, *id, req)
	if err != nil {
		return err
	}
	if err := list.AfterUpdate(*updated); err != nil {
		// The confirmed record is not in the local list. Reload rather
		// than render a list that drifted from the server.
		logger.Get().Warnw("local list out of sync, reloading", "id", updated.ID, "error", err)
		if items, err = a.expenses.List(ctx); err != nil {
			return err
		}
		list = reconcile.NewExpenseList(items)
	}

	fmt.Fprintf(a.stdout, "Updated expense #%d\n", updated.ID)
	a.printExpenses(list.Items())
	return nil
}

func (a *app) deleteExpense(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses delete", flag.ContinueOnError)
	id := fs.Int64("id", 0, "Expense ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "-id is required")
	}

	items, err := a.expenses.List(ctx)
	if err != nil {
		return err
	}
	list := reconcile.NewExpenseList(items)

	if err := a.expenses.Delete(ctx, *id); err != nil {
		return err
	}
	list.AfterDelete(*id)

	fmt.Fprintf(a.stdout, "Deleted expense #%d\n", *id)
	a.printExpenses(list.Items())
	return nil
}

func (a *app) categoriesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		categories, err := a.categories.List(ctx)
		if err != nil {
			return err
		}
		sort.SliceStable(categories, func(i, j int) bool {
			// Defaults first, matching how the backend seeds them.
			return categories[i].IsDefault() && !categories[j].IsDefault()
		})
		for _, c := range categories {
			marker := ""
			if c.IsDefault() {
				marker = " (default)"
			}
			fmt.Fprintf(a.stdout, "%4d  %-20s %s%s\n", c.ID, c.Name, c.Description, marker)
		}
		return nil
	case "add":
		fs := flag.NewFlagSet("categories add", flag.ContinueOnError)
		name := fs.String("name", "", "Category name")
		desc := fs.String("desc", "", "Description")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		req := api.CategoryRequest{Name: *name, Description: *desc}
		if err := validator.Validate(req); err != nil {
			return err
		}
		created, err := a.categories.Create(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Added category #%d %s\n", created.ID, created.Name)
		return nil
	case "delete":
		fs := flag.NewFlagSet("categories delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "Category ID")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id <= 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "-id is required")
		}
		if err := a.categories.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted category #%d\n", *id)
		return nil
	default:
		return fmt.Errorf("unknown categories subcommand %q", args[0])
	}
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", api.ExportFormatCSV, "Export format (csv or pdf)")
	out := fs.String("o", "", "Output file (defaults to the backend's filename)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	body, filename, err := a.reports.Export(ctx, *format)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	target := *out
	if target == "" {
		target = filename
	}
	if target == "" {
		target = fmt.Sprintf("fintrack-expenses-%s.%s", time.Now().Format("2006-01-02"), *format)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(f, body)
	if err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	fmt.Fprintf(a.stdout, "Wrote %d bytes to %s\n", n, target)
	return nil
}

func (a *app) printExpenses(expenses []api.Expense) {
	if len(expenses) == 0 {
		fmt.Fprintln(a.stdout, "No expenses")
		return
	}
	fmt.Fprintf(a.stdout, "%4s  %-10s  %-24s  %-16s  %10s  %s\n",
		"ID", "Date", "Description", "Category", "Amount", "Paid via")
	for _, e := range expenses {
		category := e.CategoryName
		if category == "" {
			category = "Uncategorized"
		}
		fmt.Fprintf(a.stdout, "%4d  %-10s  %-24s  %-16s  %10s  %s\n",
			e.ID, e.Date, e.Description, category, money(e.Amount), e.PaymentMode)
	}
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (tests, pipes).
func (a *app) promptPassword() (string, error) {
	fmt.Fprint(a.stdout, "Password: ")
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	reader := bufio.NewReader(a.stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// printError renders an AppError with its field reasons and a login hint on
// auth failures. A rejected credential never clears the session implicitly.
func printError(w io.Writer, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Error: %s\n", appErr.Message)
	if len(appErr.Fields) > 0 {
		keys := make([]string, 0, len(appErr.Fields))
		for k := range appErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, appErr.Fields[k])
		}
	}
	if appErr.Code == "AUTH_ERROR" {
		fmt.Fprintln(w, "Try 'fintrack login' to start a new session.")
	}
}
