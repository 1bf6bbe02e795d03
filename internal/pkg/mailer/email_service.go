package mailer

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// PendingQuestion is what HR needs to pick up an unanswered question.
type PendingQuestion struct {
	QuestionID int64
	Question   string
	Language   string
	SessionID  string
}

type IEmailService interface {
	SendPendingQuestion(q PendingQuestion) error
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	recipients  []string
	adminURL    string
}

func NewEmailService(host string, port int, username, password, senderEmail string, recipients []string, adminURL string) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), senderEmail, recipients, adminURL)
}

func NewEmailServiceWithSender(sender Sender, senderEmail string, recipients []string, adminURL string) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		recipients:  recipients,
		adminURL:    strings.TrimRight(adminURL, "/"),
	}
}

func (s *emailService) SendPendingQuestion(q PendingQuestion) error {
	if len(s.recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("[HR FAQ] New unanswered question #%d", q.QuestionID))

	link := ""
	if s.adminURL != "" {
		href := fmt.Sprintf("%s/questions/%d", s.adminURL, q.QuestionID)
		link = fmt.Sprintf(`<p><a href="%s">Answer it in the admin console</a></p>`, html.EscapeString(href))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A question needs an answer</h2>
			<p dir="auto" style="font-size: 16px;">%s</p>
			<p>Question ID: %d<br>Language: %s</p>
			%s
		</div>
	`, html.EscapeString(q.Question), q.QuestionID, html.EscapeString(q.Language), link)

	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send pending question %d: %w", q.QuestionID, err)
	}
	return nil
}
