package notification

import "fmt"

// ReviewOutcome describes an admin decision for a notification
type ReviewOutcome struct {
	Name     string
	Email    string
	Subject  string // "seller profile", "rider documents", ...
	Approved bool
	Reason   string
}

// ReviewMessage renders the email sent after an admin review decision
func ReviewMessage(o ReviewOutcome) Message {
	if o.Approved {
		return Message{
			ToEmail: o.Email,
			ToName:  o.Name,
			Subject: fmt.Sprintf("Update on your %s: approved", o.Subject),
			Body:    fmt.Sprintf("Hi %s,\n\nYour %s has been approved.", o.Name, o.Subject),
		}
	}
	return Message{
		ToEmail: o.Email,
		ToName:  o.Name,
		Subject: fmt.Sprintf("Update on your %s: action needed", o.Subject),
		Body:    fmt.Sprintf("Hi %s,\n\nYour %s was rejected.\nReason: %s", o.Name, o.Subject, o.Reason),
	}
}

// RegistrationSubmittedMessage is sent when a wizard reaches the final step
func RegistrationSubmittedMessage(name, email, role string) Message {
	return Message{
		ToEmail: email,
		ToName:  name,
		Subject: "Registration received",
		Body:    fmt.Sprintf("Hi %s,\n\nYour %s registration is complete and pending approval.", name, role),
	}
}
