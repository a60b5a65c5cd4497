package email

import (
	"fmt"
	"strconv"
	"strings"

	"relo-assistant/internal/domain"
)

// ReferralConfig define a quien se deriva el cliente.
type ReferralConfig struct {
	To []string
	CC []string
}

// BuildReferral arma el correo con los datos conocidos del plan. Los campos
// faltantes se informan como "Not specified".
func BuildReferral(cfg ReferralConfig, plan domain.RelocationPlan) Referral {
	name := domain.StringOr(plan.UserName, "")
	userEmail := domain.StringOr(plan.UserEmail, "")

	subjectName := name
	if subjectName == "" {
		subjectName = "New client"
	}
	household := "Not specified"
	if plan.HouseholdSize != nil {
		household = strconv.Itoa(*plan.HouseholdSize)
	}

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	b.WriteString("We have a new client who needs immigration assistance for their relocation.\n\n")
	b.WriteString("Client details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orDefault(name, "Not provided"))
	fmt.Fprintf(&b, "- Email: %s\n", userEmail)
	fmt.Fprintf(&b, "- From: %s\n", domain.StringOr(plan.FromCity, "Not specified"))
	fmt.Fprintf(&b, "- To: %s\n", domain.StringOr(plan.ToCity, "Not specified"))
	fmt.Fprintf(&b, "- Move date: %s\n", domain.StringOr(plan.SelectedDate, "Not specified"))
	fmt.Fprintf(&b, "- Household size: %s\n", household)
	fmt.Fprintf(&b, "- Current visa status: %s\n", domain.StringOr(plan.VisaStatus, "Assessment needed"))
	if status := domain.StringOr(plan.ImmigrationStatus, ""); status != "" {
		fmt.Fprintf(&b, "- Details: %s\n", status)
	}
	b.WriteString("\nThey are looking for help with visa applications, documentation and the immigration process.\n")
	fmt.Fprintf(&b, "Please reach out to them at %s to schedule a consultation.\n", userEmail)

	r := Referral{
		CC:      append([]string(nil), cfg.CC...),
		ReplyTo: userEmail,
		Subject: "New Immigration Client Referral: " + subjectName,
		Body:    b.String(),
	}
	if len(cfg.To) > 0 {
		r.To = cfg.To[0]
		r.CC = append(append([]string(nil), cfg.To[1:]...), r.CC...)
	}
	return r
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
