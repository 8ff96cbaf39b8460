package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hongminglow/lifelink/internal/dashboard"
	"github.com/hongminglow/lifelink/internal/models"
	"github.com/hongminglow/lifelink/internal/profile"
	"github.com/hongminglow/lifelink/internal/router"
)

// render draws the view behind path. The guard must already have allowed it.
func (a *app) render(ctx context.Context, path string) error {
	switch path {
	case router.Home:
		a.renderHome()
	case router.Login:
		fmt.Fprintln(a.out, "== Login ==")
		fmt.Fprintln(a.out, "lifelink login -u USERNAME -p PASSWORD [-admin]")
	case router.Register:
		fmt.Fprintln(a.out, "== Register ==")
		fmt.Fprintln(a.out, "lifelink register -first NAME -last NAME -u USERNAME -email EMAIL -p PASSWORD -confirm PASSWORD -type DONOR|RECEIVER -accept-terms")
	case router.ForgotPassword:
		fmt.Fprintln(a.out, "== Forgot password ==")
		fmt.Fprintln(a.out, "lifelink forgot-password -email EMAIL")
	case router.ResetPassword:
		fmt.Fprintln(a.out, "== Reset password ==")
		fmt.Fprintln(a.out, "lifelink reset-password -token TOKEN -p PASSWORD -confirm PASSWORD")
	case router.Profile:
		return a.renderProfile(ctx)
	case router.DonorDashboard:
		a.renderDonor(a.donor.Refresh(ctx))
	case router.ReceiverDashboard:
		a.renderReceiver(a.receiver.Refresh(ctx))
	case router.AdminDashboard:
		a.renderAdmin(a.admin.Refresh(ctx))
	default:
		fmt.Fprintln(a.out, "== 404 ==")
		fmt.Fprintln(a.out, "The page you are looking for does not exist.")
	}
	return nil
}

func (a *app) renderHome() {
	fmt.Fprintln(a.out, "== LifeLink ==")
	fmt.Fprintln(a.out, "Connecting organ donors with the people who need them.")
	sess, ok := a.session.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in. Use `lifelink login` or `lifelink register`.")
		return
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s). Your dashboard: %s\n",
		sess.User.Username, roleLabel(sess.User.Roles), router.LandingFor(sess.User.Roles))
}

func roleLabel(roles models.RoleSet) string {
	switch primary, _ := roles.Primary(); primary {
	case models.RoleAdmin:
		return "Admin"
	case models.RoleDonor:
		return "Donor"
	case models.RoleReceiver:
		return "Receiver"
	default:
		return "User"
	}
}

func (a *app) renderProfile(ctx context.Context) error {
	view, err := a.profile.Load(ctx)
	if err != nil {
		return err
	}
	p := view.Profile
	fmt.Fprintln(a.out, "== Profile ==")
	if view.Error != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Error)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"Name", p.FirstName + " " + p.LastName},
		{"Email", p.Email},
		{"Contact number", p.ContactNumber},
		{"Address", p.Address},
		{"Date of birth", p.DateOfBirth},
		{"Blood type", dashboard.FormatStatus(p.BloodType)},
		{"Medical history", p.MedicalHistory},
	}
	if view.Roles.Has(models.RoleDonor) {
		rows = append(rows,
			[2]string{"Emergency contact", p.EmergencyContactName},
			[2]string{"Emergency number", p.EmergencyContactNumber},
			[2]string{"Preferred hospital", p.PreferredHospital})
	}
	if view.Roles.Has(models.RoleReceiver) {
		rows = append(rows, [2]string{"Urgency", dashboard.FormatStatus(p.UrgencyLevel)})
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], orNA(row[1]))
	}
	_ = tw.Flush()

	if view.ForceEdit {
		missing := p.Missing(view.Roles)
		fmt.Fprintf(a.out, "\nProfile incomplete; missing: %v\n", missing)
		fmt.Fprintln(a.out, "Complete it with: lifelink profile-edit -field value ...")
	}
	if view.Source == profile.SourceLocal {
		fmt.Fprintln(a.out, "(showing the copy saved on this machine)")
	}

	if view.Roles.Has(models.RoleDonor) {
		fmt.Fprintln(a.out)
		a.renderDonations(a.donor.Refresh(ctx).Donations)
	}
	if view.Roles.Has(models.RoleReceiver) {
		fmt.Fprintln(a.out)
		a.renderRequests(a.receiver.Refresh(ctx).Requests)
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func (a *app) renderAlert(alert *dashboard.Alert) {
	if alert == nil {
		return
	}
	fmt.Fprintf(a.out, "[%s] %s\n", alert.Tone, alert.Message)
}

func (a *app) renderDonor(view dashboard.DonorView) {
	fmt.Fprintln(a.out, "== Donor dashboard ==")
	a.renderAlert(view.Alert)
	if view.Error != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Error)
	}
	a.renderDonations(view.Donations)
}

func (a *app) renderDonations(donations []models.Donation) {
	if len(donations) == 0 {
		fmt.Fprintln(a.out, "You haven't registered any donations yet.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORGAN\tSTATUS\tREGISTERED\tNOTES\tCANCELABLE")
	for _, d := range donations {
		fmt.Fprintf(tw, "%d\t%s\t%s [%s]\t%s\t%s\t%s\n",
			d.ID, dashboard.FormatStatus(string(d.OrganType)),
			dashboard.FormatStatus(string(d.Status)), dashboard.StatusTone(d.Status),
			dashboard.FormatDate(d.CreatedAt), orNA(d.MedicalNotes), yesNo(d.Cancelable()))
	}
	_ = tw.Flush()
}

func (a *app) renderReceiver(view dashboard.ReceiverView) {
	fmt.Fprintln(a.out, "== Receiver dashboard ==")
	a.renderAlert(view.Alert)
	if view.Error != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Error)
	}
	a.renderRequests(view.Requests)
}

func (a *app) renderRequests(requests []models.OrganRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(a.out, "You haven't made any organ requests yet.")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORGAN\tURGENCY\tSTATUS\tREQUESTED\tDOCTOR APPROVAL\tCANCELABLE")
	for _, r := range requests {
		fmt.Fprintf(tw, "%d\t%s\t%s [%s]\t%s [%s]\t%s\t%s\t%s\n",
			r.ID, dashboard.FormatStatus(string(r.OrganType)),
			dashboard.FormatStatus(string(r.UrgencyLevel)), dashboard.UrgencyTone(r.UrgencyLevel),
			dashboard.FormatStatus(string(r.Status())), dashboard.StatusTone(r.Status()),
			dashboard.FormatDate(r.CreatedAt), yesNo(r.DoctorApproval), yesNo(r.Cancelable()))
	}
	_ = tw.Flush()
}

func (a *app) renderAdmin(view dashboard.AdminView) {
	fmt.Fprintln(a.out, "== Admin dashboard ==")
	a.renderAlert(view.Alert)

	fmt.Fprintln(a.out, "\n-- Donations --")
	if view.Errors.Donations != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Errors.Donations)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONOR\tORGAN\tSTATUS\tREGISTERED")
	for _, d := range view.Donations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, partyName(d.Donor),
			dashboard.FormatStatus(string(d.OrganType)), dashboard.FormatStatus(string(d.Status)),
			dashboard.FormatDate(d.CreatedAt))
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, "\n-- Requests --")
	if view.Errors.Requests != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Errors.Requests)
	}
	tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRECEIVER\tORGAN\tURGENCY\tSTATUS\tREQUESTED")
	for _, r := range view.Requests {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, partyName(r.Receiver),
			dashboard.FormatStatus(string(r.OrganType)), dashboard.FormatStatus(string(r.UrgencyLevel)),
			dashboard.FormatStatus(string(r.Status())), dashboard.FormatDate(r.CreatedAt))
	}
	_ = tw.Flush()

	fmt.Fprintln(a.out, "\n-- Potential matches --")
	if view.Errors.Matches != "" {
		fmt.Fprintf(a.out, "! %s\n", view.Errors.Matches)
	}
	tw = tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DONATION\tREQUEST\tORGAN\tSCORE\tNOTES")
	for _, m := range view.Matches {
		var donationID, requestID, organ string
		if m.Donation != nil {
			donationID = strconv.FormatInt(m.Donation.ID, 10)
			organ = dashboard.FormatStatus(string(m.Donation.OrganType))
		}
		if m.Request != nil {
			requestID = strconv.FormatInt(m.Request.ID, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\t%s\n", donationID, requestID, organ, m.CompatibilityScore, orNA(m.MatchNotes))
	}
	_ = tw.Flush()
}

func partyName(p *models.Party) string {
	if p == nil || p.User == nil {
		return "N/A"
	}
	if p.User.FullName != "" {
		return p.User.FullName
	}
	return p.User.Username
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
