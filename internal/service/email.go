package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"fieldforce-backend/internal/domain"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", "https://api.sendgrid.com")
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendWithdrawalDecisionNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest) error {
	subject := fmt.Sprintf("Withdrawal request %s", req.Status)
	plainText := fmt.Sprintf("Hi %s,\n\nYour withdrawal request for %s %s has been %s.",
		name, req.Amount, domain.DefaultCurrency, req.Status)
	if req.Note != "" {
		plainText += fmt.Sprintf("\n\nNote: %s", req.Note)
	}
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your withdrawal request for <strong>%s %s</strong> has been <strong>%s</strong>.</p>
			<p>%s</p>
		</body>
		</html>`, name, req.Amount, domain.DefaultCurrency, req.Status, req.Note)

	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendWithdrawalSettledNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest, txn *domain.Transaction) error {
	if req.Status == domain.WithdrawalStatusFailed {
		subject := "Withdrawal payout failed"
		plainText := fmt.Sprintf("Hi %s,\n\nYour withdrawal of %s %s could not be paid out: insufficient funds. Please submit a new request.",
			name, req.Amount, domain.DefaultCurrency)
		htmlContent := fmt.Sprintf(`
			<html>
			<body>
				<p>Hi %s,</p>
				<p>Your withdrawal of <strong>%s %s</strong> could not be paid out: insufficient funds.</p>
				<p>Please submit a new request.</p>
			</body>
			</html>`, name, req.Amount, domain.DefaultCurrency)
		return s.send(ctx, email, name, subject, plainText, htmlContent)
	}

	subject := "Withdrawal paid out"
	plainText := fmt.Sprintf("Hi %s,\n\nYour withdrawal of %s %s has been paid out. Reference: %s.",
		name, req.Amount, domain.DefaultCurrency, txn.Reference)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>Your withdrawal of <strong>%s %s</strong> has been paid out.</p>
			<p>Reference: %s</p>
		</body>
		</html>`, name, req.Amount, domain.DefaultCurrency, txn.Reference)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendAssignmentNotification(ctx context.Context, email, name, teamName string) error {
	subject := fmt.Sprintf("You have joined %s", teamName)
	plainText := fmt.Sprintf("Hi %s,\n\nYou are now a member of %s. Welcome aboard!", name, teamName)
	htmlContent := fmt.Sprintf(`
		<html>
		<body>
			<p>Hi %s,</p>
			<p>You are now a member of <strong>%s</strong>. Welcome aboard!</p>
		</body>
		</html>`, name, teamName)
	return s.send(ctx, email, name, subject, plainText, htmlContent)
}
