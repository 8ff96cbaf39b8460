package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hongminglow/lifelink/internal/api"
	"github.com/hongminglow/lifelink/internal/dashboard"
	"github.com/hongminglow/lifelink/internal/forms"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/models/dto"
	"github.com/hongminglow/lifelink/internal/profile"
	"github.com/hongminglow/lifelink/internal/router"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"open":             {"open a view by path, e.g. /donor-dashboard", runOpen},
	"login":            {"sign in and open your dashboard", runLogin},
	"logout":           {"sign out", runLogout},
	"register":         {"create a donor or receiver account", runRegister},
	"forgot-password":  {"request a password reset link", runForgotPassword},
	"reset-password":   {"set a new password with a reset token", runResetPassword},
	"change-password":  {"change the password of the current account", runChangePassword},
	"profile":          {"show your profile", viewCommand(router.Profile)},
	"profile-edit":     {"update your profile", runProfileEdit},
	"donate":           {"register an organ donation", runDonate},
	"cancel-donation":  {"cancel a pending donation", runCancelDonation},
	"request-organ":    {"request an organ", runRequestOrgan},
	"cancel-request":   {"cancel a pending organ request", runCancelRequest},
	"approve-donation": {"approve a donation (admin)", decideCommand("donation", api.Approve)},
	"reject-donation":  {"reject a donation (admin)", decideCommand("donation", api.Reject)},
	"approve-request":  {"approve an organ request (admin)", decideCommand("request", api.Approve)},
	"reject-request":   {"reject an organ request (admin)", decideCommand("request", api.Reject)},
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse reports a usage error together with the command's flag help.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil {
		return nil
	}
	var help strings.Builder
	fs.SetOutput(&help)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	return fmt.Errorf("%s: %w\n%s", fs.Name(), err, strings.TrimRight(help.String(), "\n"))
}

var (
	organHelp   = "organ type: " + dashboard.Choices(dashboard.OrganOptions())
	urgencyHelp = dashboard.Choices(dashboard.UrgencyOptions())
)

func viewCommand(path string) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, _ []string) error {
		return a.show(ctx, path)
	}
}

func runOpen(ctx context.Context, a *app, args []string) error {
	path := router.Home
	if len(args) > 0 {
		path = args[0]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return a.show(ctx, path)
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	asAdmin := fs.Bool("admin", false, "sign in to the admin console")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := forms.Login(*username, *password); err != nil {
		return err
	}

	sess, err := a.session.Login(ctx, strings.TrimSpace(*username), *password, *asAdmin)
	if err != nil {
		return a.fail(ctx, err, "Failed to login. Please check your credentials.")
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", sess.User.Username)
	return a.follow(ctx)
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return a.fail(ctx, err, "Failed to log out.")
	}
	fmt.Fprintln(a.out, "You have been logged out.")
	return a.follow(ctx)
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	var r forms.Registration
	fs.StringVar(&r.FirstName, "first", "", "first name")
	fs.StringVar(&r.LastName, "last", "", "last name")
	fs.StringVar(&r.Username, "u", "", "username")
	fs.StringVar(&r.Email, "email", "", "email address")
	fs.StringVar(&r.Password, "p", "", "password")
	fs.StringVar(&r.ConfirmPassword, "confirm", "", "password again")
	fs.StringVar(&r.UserType, "type", string(models.UserTypeDonor), "DONOR or RECEIVER")
	fs.BoolVar(&r.TermsAccepted, "accept-terms", false, "accept the terms and conditions")
	if err := parse(fs, args); err != nil {
		return err
	}
	req, err := r.Validate()
	if err != nil {
		return err
	}
	if _, err := a.session.Register(ctx, req); err != nil {
		return a.fail(ctx, err, "Registration failed. Please try again.")
	}
	fmt.Fprintln(a.out, "Registration successful! Please login with your credentials.")
	a.nav.Navigate(router.Login)
	return a.follow(ctx)
}

func runForgotPassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("forgot-password")
	email := fs.String("email", "", "account email")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := forms.ForgotPassword(*email); err != nil {
		return err
	}
	resp, err := a.client.ForgotPassword(ctx, strings.TrimSpace(*email))
	if err != nil {
		return a.fail(ctx, err, "An error occurred. Please try again later.")
	}
	msg := resp.Message
	if msg == "" {
		msg = "If an account exists for that email, a reset link is on its way."
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func runResetPassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reset-password")
	token := fs.String("token", "", "token from the reset email")
	password := fs.String("p", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := forms.ResetToken(*token); err != nil {
		return err
	}
	if err := a.client.ValidateResetToken(ctx, *token); err != nil {
		return userError("Invalid or expired token. Please request a new password reset link.")
	}
	if err := forms.NewPassword(*password, *confirm); err != nil {
		return err
	}
	resp, err := a.client.ResetPassword(ctx, *token, *password)
	if err != nil {
		return a.fail(ctx, err, "Failed to reset password. Please try again.")
	}
	msg := resp.Message
	if msg == "" {
		msg = "Password has been reset successfully."
	}
	fmt.Fprintln(a.out, msg)
	a.nav.Navigate(router.Login)
	return a.follow(ctx)
}

func runChangePassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("change-password")
	current := fs.String("current", "", "current password")
	password := fs.String("new", "", "new password")
	confirm := fs.String("confirm", "", "new password again")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := a.enter(ctx, router.Profile); err != nil {
		return err
	}
	msg, err := a.profile.ChangePassword(ctx, *current, *password, *confirm)
	if err != nil {
		return a.fail(ctx, err, "Failed to change password. Please try again later.")
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// profileFlags maps profile-edit flags onto profile fields.
var profileFlags = []struct {
	name  string
	usage string
	field func(p *models.Profile) *string
}{
	{"first", "first name", func(p *models.Profile) *string { return &p.FirstName }},
	{"last", "last name", func(p *models.Profile) *string { return &p.LastName }},
	{"email", "email address", func(p *models.Profile) *string { return &p.Email }},
	{"phone", "contact number", func(p *models.Profile) *string { return &p.ContactNumber }},
	{"address", "address", func(p *models.Profile) *string { return &p.Address }},
	{"dob", "date of birth, YYYY-MM-DD", func(p *models.Profile) *string { return &p.DateOfBirth }},
	{"blood-type", "e.g. O_NEGATIVE", func(p *models.Profile) *string { return &p.BloodType }},
	{"history", "medical history", func(p *models.Profile) *string { return &p.MedicalHistory }},
	{"emergency-name", "emergency contact (donors)", func(p *models.Profile) *string { return &p.EmergencyContactName }},
	{"emergency-phone", "emergency contact number (donors)", func(p *models.Profile) *string { return &p.EmergencyContactNumber }},
	{"hospital", "preferred hospital (donors)", func(p *models.Profile) *string { return &p.PreferredHospital }},
	{"urgency", urgencyHelp + " (receivers)", func(p *models.Profile) *string { return &p.UrgencyLevel }},
}

func runProfileEdit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("profile-edit")
	for _, f := range profileFlags {
		fs.String(f.name, "", f.usage)
	}
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.enter(ctx, router.Profile); err != nil {
		return err
	}
	view, err := a.profile.Load(ctx)
	if err != nil {
		return a.fail(ctx, err, "An unexpected error occurred while fetching your profile.")
	}
	p := view.Profile
	// Only flags given on the command line replace loaded values.
	fs.Visit(func(set *flag.Flag) {
		for _, f := range profileFlags {
			if f.name == set.Name {
				*f.field(&p) = set.Value.String()
			}
		}
	})
	p.BloodType = strings.ToUpper(strings.TrimSpace(p.BloodType))
	p.UrgencyLevel = strings.ToUpper(strings.TrimSpace(p.UrgencyLevel))

	res, err := a.profile.Submit(ctx, p)
	if err != nil {
		return a.fail(ctx, err, "Failed to save your profile.")
	}
	fmt.Fprintln(a.out, res.Notice)
	if res.ServerError != "" {
		fmt.Fprintf(a.out, "Server said: %s\n", res.ServerError)
	}
	if res.Outcome == profile.Synced {
		fmt.Fprintf(a.out, "Saved through the %s route.\n", res.Strategy)
	}
	return a.follow(ctx)
}

func runDonate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("donate")
	var req dto.DonationRequest
	organ := fs.String("organ", "", organHelp)
	fs.StringVar(&req.MedicalNotes, "notes", "", "medical notes")
	if err := parse(fs, args); err != nil {
		return err
	}
	req.OrganType = models.OrganType(strings.ToUpper(strings.TrimSpace(*organ)))
	if err := a.enter(ctx, router.DonorDashboard); err != nil {
		return err
	}
	a.donor.Refresh(ctx)
	a.renderDonor(a.donor.Donate(ctx, req))
	return a.follow(ctx)
}

func runCancelDonation(ctx context.Context, a *app, args []string) error {
	id, err := parseID("cancel-donation", args)
	if err != nil {
		return err
	}
	if err := a.enter(ctx, router.DonorDashboard); err != nil {
		return err
	}
	a.donor.Refresh(ctx)
	a.renderDonor(a.donor.Cancel(ctx, id))
	return a.follow(ctx)
}

func runRequestOrgan(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("request-organ")
	req := dashboard.NewRequestForm()
	organ := fs.String("organ", "", organHelp)
	urgency := fs.String("urgency", string(req.UrgencyLevel), urgencyHelp)
	fs.StringVar(&req.MedicalNotes, "notes", "", "medical notes")
	fs.BoolVar(&req.DoctorApproval, "doctor-approval", false, "confirm a doctor approved the request")
	if err := parse(fs, args); err != nil {
		return err
	}
	req.OrganType = models.OrganType(strings.ToUpper(strings.TrimSpace(*organ)))
	req.UrgencyLevel = models.Urgency(strings.ToUpper(strings.TrimSpace(*urgency)))
	if err := a.enter(ctx, router.ReceiverDashboard); err != nil {
		return err
	}
	a.receiver.Refresh(ctx)
	a.renderReceiver(a.receiver.Request(ctx, req))
	return a.follow(ctx)
}

func runCancelRequest(ctx context.Context, a *app, args []string) error {
	id, err := parseID("cancel-request", args)
	if err != nil {
		return err
	}
	if err := a.enter(ctx, router.ReceiverDashboard); err != nil {
		return err
	}
	a.receiver.Refresh(ctx)
	a.renderReceiver(a.receiver.Cancel(ctx, id))
	return a.follow(ctx)
}

func decideCommand(kind string, d api.Decision) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(string(d)+"-"+kind, args)
		if err != nil {
			return err
		}
		if err := a.enter(ctx, router.AdminDashboard); err != nil {
			return err
		}
		var view dashboard.AdminView
		if kind == "donation" {
			view = a.admin.DecideDonation(ctx, id, d)
		} else {
			view = a.admin.DecideRequest(ctx, id, d)
		}
		a.renderAdmin(view)
		return a.follow(ctx)
	}
}

func parseID(name string, args []string) (int64, error) {
	fs := newFlagSet(name)
	id := fs.Int64("id", 0, "record id")
	if err := parse(fs, args); err != nil {
		return 0, err
	}
	if *id <= 0 {
		return 0, fmt.Errorf("%s: -id is required", name)
	}
	return *id, nil
}
