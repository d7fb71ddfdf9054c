package portal

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
)

const contactTemplate = "contact"

// SubmitContact stores msg in the contact submissions collection and emails it to the department
// contact address, replying to the sender.
func (p *Portal) SubmitContact(ctx context.Context, msg ContactMessage) (*ContactSubmission, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	sub, err := p.ContactSubmissions.Add(ctx, ContactSubmission{
		ContactMessage: msg,
		Timestamp:      nowFunc().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.Wrap(err, "storing contact submission")
	}
	p.logger.Info("contact message received", map[string]interface{}{"id": sub.ID, "email": sub.Email})

	if p.email != nil && p.conf != nil && p.conf.ContactEmail.Address != "" {
		p.email.SendMessages(&core.EmailMessage{
			To:           []mail.Address{p.conf.ContactEmail},
			ReplyTo:      &mail.Address{Name: sub.Name, Address: sub.Email},
			Subject:      sub.Subject,
			TemplateName: contactTemplate,
			TemplateData: sub,
		})
	}
	return &sub, nil
}
