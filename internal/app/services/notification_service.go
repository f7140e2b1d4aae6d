package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const mailSendTimeout = 30 * time.Second

var ticketMailTemplate = template.Must(template.New("ticket").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Your ticket for <strong>{{.CampaignName}}</strong> at {{.BusinessName}} is ready.</p>
<p>Code: <strong>{{.Code}}</strong></p>
{{if .ExpiresAt}}<p>Valid until {{.ExpiresAt}}.</p>{{end}}
<p>Show the attached QR code to the staff to redeem it.</p>`))

type ticketMailData struct {
	CustomerName string
	CampaignName string
	BusinessName string
	Code         string
	ExpiresAt    string
}

type NotificationService struct {
	mailer infrastructures.Mailer
	config *infrastructures.AppConfig
	wg     sync.WaitGroup
}

func NewNotificationService(mailer infrastructures.Mailer, config *infrastructures.AppConfig) *NotificationService {
	return &NotificationService{
		mailer: mailer,
		config: config,
	}
}

// SendTicketAsync mails the ticket with its QR code in the background.
// Failures are logged and never reach the caller.
func (s *NotificationService) SendTicketAsync(ticket *models.Ticket, campaign *models.Campaign, business *models.Business, email string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		log := logrus.WithFields(logrus.Fields{
			"ticket": ticket.Code,
			"to":     email,
		})

		msg, err := s.buildTicketMessage(ticket, campaign, business, email)
		if err != nil {
			log.WithError(err).Error("failed to build ticket mail")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			log.WithError(err).Error("failed to send ticket mail")
			return
		}
		log.Info("ticket mail sent")
	}()
}

// Wait blocks until every mail started so far has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) buildTicketMessage(ticket *models.Ticket, campaign *models.Campaign, business *models.Business, email string) (*gomail.Message, error) {
	data := ticketMailData{
		CustomerName: ticket.CustomerName,
		CampaignName: campaign.Name,
		BusinessName: business.Name,
		Code:         ticket.Code,
	}
	if ticket.ExpiresAt != nil {
		data.ExpiresAt = ticket.ExpiresAt.Format(time.RFC1123)
	}

	var body bytes.Buffer
	if err := ticketMailTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render ticket mail: %w", err)
	}

	qrBytes, err := pkg.GenerateQRCode(pkg.TicketRedeemURL(s.config.PublicBaseURL, ticket.Code), pkg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.mailer.From())
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Your ticket for %s", campaign.Name))
	m.SetBody("text/html", body.String())

	filename := fmt.Sprintf("ticket_%s.png", ticket.Code)
	m.Attach(filename, gomail.Rename(filename), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(qrBytes))
		return err
	}))

	return m, nil
}
