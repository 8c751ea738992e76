package services

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/rs/zerolog/log"
)

// EmailService sends transactional email via SES, falling back to SMTP
type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string

	sesClient *ses.SES
	useSES    bool
}

// NewEmailService creates a new email service. SES credentials take
// precedence over SMTP.
func NewEmailService() (*EmailService, error) {
	emailService := &EmailService{}

	awsRegion := os.Getenv("AWS_REGION")
	awsAccessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	awsSecretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	sesFromEmail := os.Getenv("SES_FROM_EMAIL")

	if awsRegion != "" && awsAccessKey != "" && awsSecretKey != "" && sesFromEmail != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(awsRegion),
			Credentials: credentials.NewStaticCredentials(awsAccessKey, awsSecretKey, ""),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}

		emailService.sesClient = ses.New(sess)
		emailService.fromEmail = sesFromEmail
		emailService.useSES = true

		log.Info().Str("region", awsRegion).Str("from", sesFromEmail).Msg("AWS SES configured")
		return emailService, nil
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPassword := os.Getenv("SMTP_PASSWORD")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPort == "" || smtpUser == "" || smtpPassword == "" || fromEmail == "" {
		return nil, fmt.Errorf("email service not configured. Set either AWS SES credentials (AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, SES_FROM_EMAIL) or SMTP credentials (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, FROM_EMAIL)")
	}

	emailService.smtpHost = smtpHost
	emailService.smtpPort = smtpPort
	emailService.smtpUser = smtpUser
	emailService.smtpPassword = smtpPassword
	emailService.fromEmail = fromEmail
	emailService.useSES = false

	return emailService, nil
}

// SendEmail sends an email using SES or SMTP
func (s *EmailService) SendEmail(to []string, subject, body string) error {
	if s.useSES {
		return s.sendEmailWithSES(to, subject, body)
	}
	return s.sendEmailWithSMTP(to, subject, body)
}

// SendContactReply notifies a visitor that their contact message was answered
func (s *EmailService) SendContactReply(email, name, reply string) error {
	subject := "Reply to your message - LangTouch"
	body := fmt.Sprintf(`
<html>
<body>
    <p>Hello %s,</p>
    <p>Thank you for contacting LangTouch. Our team has replied to your message:</p>
    <blockquote>%s</blockquote>
    <p>Best regards,<br>The LangTouch Team</p>
</body>
</html>
`, name, reply)
	return s.SendEmail([]string{email}, subject, body)
}

// SendPaymentConfirmation notifies a user that their payment was confirmed
func (s *EmailService) SendPaymentConfirmation(email, username, reference, amount string) error {
	subject := "Payment Confirmed - LangTouch"
	body := fmt.Sprintf(`
<html>
<body>
    <p>Hello %s,</p>
    <p>Your payment <strong>%s</strong> for the amount of <strong>%s</strong> has been confirmed.</p>
    <p>Thank you for choosing LangTouch.</p>
</body>
</html>
`, username, reference, amount)
	return s.SendEmail([]string{email}, subject, body)
}

// sendEmailWithSES sends email using Amazon SES
func (s *EmailService) sendEmailWithSES(to []string, subject, body string) error {
	if s.sesClient == nil {
		return fmt.Errorf("SES client not configured")
	}

	var toAddresses []*string
	for _, addr := range to {
		toAddresses = append(toAddresses, aws.String(addr))
	}

	input := &ses.SendEmailInput{
		Destination: &ses.Destination{
			ToAddresses: toAddresses,
		},
		Message: &ses.Message{
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(body),
				},
			},
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
		},
		Source: aws.String(s.fromEmail),
	}

	_, err := s.sesClient.SendEmail(input)
	if err != nil {
		log.Error().Err(err).Strs("to", to).Msg("Failed to send email via SES")
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	return nil
}

// sendEmailWithSMTP sends email using SMTP
func (s *EmailService) sendEmailWithSMTP(to []string, subject, body string) error {
	if s.smtpHost == "" {
		return fmt.Errorf("SMTP service not configured")
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.fromEmail, to[0], subject, body)

	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	err := smtp.SendMail(s.smtpHost+":"+s.smtpPort, auth, s.fromEmail, to, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}
